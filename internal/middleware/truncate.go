package middleware

import (
	"context"
	"strconv"

	"github.com/enrollchat/enrollchat/internal/core"
)

// suffixReserve is runes reserved for the truncation message (approximate;
// actual suffix length varies with digit count).
const suffixReserve = 80

// TruncateOutput caps s at maxRunes runes. If maxRunes <= 0, returns s
// unchanged. Truncation preserves the start of the string and appends a
// suffix with the total rune count so the model knows content was cut.
func TruncateOutput(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	keep := maxRunes - suffixReserve
	if keep <= 0 {
		keep = 1
	}
	suffix := "\n...[output truncated, total " + strconv.Itoa(len(r)) + " runes]"
	return string(r[:keep]) + suffix
}

// TruncatingToolClient wraps a ToolClient and truncates each text segment of
// a result to maxRunes (0 = no truncation). Keeps oversized tool output from
// blowing up the conversation context.
type TruncatingToolClient struct {
	next     core.ToolClient
	maxRunes int
}

// NewTruncatingToolClient returns a tool client that truncates results from next.
func NewTruncatingToolClient(next core.ToolClient, maxRunes int) *TruncatingToolClient {
	return &TruncatingToolClient{next: next, maxRunes: maxRunes}
}

// ListTools passes through to the inner client.
func (t *TruncatingToolClient) ListTools(ctx context.Context) ([]core.ToolInfo, error) {
	return t.next.ListTools(ctx)
}

// CallTool runs the inner client and truncates each text segment before returning.
func (t *TruncatingToolClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*core.ToolCallResult, error) {
	result, err := t.next.CallTool(ctx, name, args)
	if err != nil {
		return nil, err
	}
	for i := range result.Content {
		result.Content[i].Text = TruncateOutput(result.Content[i].Text, t.maxRunes)
	}
	return result, nil
}

var _ core.ToolClient = (*TruncatingToolClient)(nil)
