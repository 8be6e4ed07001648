package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enrollchat/enrollchat/internal/core"
)

// Client speaks MCP to the enrollment tool server over a stdio pipe. The
// server process is spawned from the configured command line and the
// connection is shared for the life of this process: concurrent first
// callers share one in-flight connect attempt, and a failed connect is
// cached and returned to every later caller.
type Client struct {
	impl       *mcpsdk.Client
	command    string
	once       sync.Once
	session    *mcpsdk.ClientSession
	connectErr error
}

// NewClient constructs a client for the given tool-server command line
// (e.g. "node /srv/mcp-enrollment/dist/index.js"). Nothing is spawned until
// the first call.
func NewClient(command string) *Client {
	impl := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "enrollchat", Version: "1.0.0"}, nil)
	return &Client{impl: impl, command: command}
}

func (c *Client) ensureConnected(ctx context.Context) error {
	c.once.Do(func() {
		parts := strings.Fields(strings.TrimSpace(c.command))
		if len(parts) == 0 {
			c.connectErr = fmt.Errorf("toolserver: command not configured")
			return
		}
		cmd := exec.Command(parts[0], parts[1:]...)
		transport := &mcpsdk.CommandTransport{Command: cmd}
		session, err := c.impl.Connect(ctx, transport, nil)
		if err != nil {
			c.connectErr = fmt.Errorf("toolserver: connect: %w", err)
			return
		}
		c.session = session
	})
	return c.connectErr
}

// ListTools fetches the tool server's declared tools in declaration order.
func (c *Client) ListTools(ctx context.Context) ([]core.ToolInfo, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	res, err := c.session.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("toolserver: list tools: %w", err)
	}
	out := make([]core.ToolInfo, 0, len(res.Tools))
	for _, t := range res.Tools {
		info := core.ToolInfo{Name: t.Name, Description: t.Description}
		// InputSchema arrives as whatever JSON the server declared; round-trip
		// through JSON to pull out the one level of structure we carry.
		if t.InputSchema != nil {
			if raw, err := json.Marshal(t.InputSchema); err == nil {
				_ = json.Unmarshal(raw, &info.InputSchema)
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// CallTool invokes one tool and returns its ordered content segments. A
// tool-level failure (transport error or isError result) comes back as an
// error; callers fold it into the conversation rather than aborting.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*core.ToolCallResult, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	res, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("toolserver: call %s: %w", name, err)
	}
	result := &core.ToolCallResult{}
	for _, content := range res.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			result.Content = append(result.Content, core.ToolContent{Type: "text", Text: tc.Text})
		}
	}
	if res.IsError {
		msg := "tool reported an error"
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, fmt.Errorf("toolserver: call %s: %s", name, msg)
	}
	return result, nil
}

// Close shuts down the tool-server session, if one was established.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

var _ core.ToolClient = (*Client)(nil)
