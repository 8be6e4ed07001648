package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "")
	t.Setenv("ENROLLCHAT_MODEL", "")
	t.Setenv("ENROLLCHAT_ADDR", "")
	t.Setenv("ENROLLCHAT_MCP_COMMAND", "")
	t.Setenv("ENROLLCHAT_TOOL_OUTPUT_MAX_RUNES", "")

	cfg := New(t.TempDir())
	if cfg.Model != DefaultModel {
		t.Errorf("model: %q", cfg.Model)
	}
	if cfg.ListenAddr != ":3100" {
		t.Errorf("addr: %q", cfg.ListenAddr)
	}
	if cfg.MaxToolTurns != 5 {
		t.Errorf("max tool turns: %d", cfg.MaxToolTurns)
	}
	if cfg.ToolOutputMaxRunes != 0 {
		t.Errorf("truncation should default off: %d", cfg.ToolOutputMaxRunes)
	}
}

func TestNew_EnvValues(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "env-key")
	t.Setenv("ENROLLCHAT_MODEL", "gemini-2.5-pro")
	t.Setenv("ENROLLCHAT_ADDR", ":9090")
	t.Setenv("ENROLLCHAT_MCP_COMMAND", "node server.js")
	t.Setenv("ENROLLCHAT_TOOL_OUTPUT_MAX_RUNES", "2000")

	dir := t.TempDir()
	cfg := New(dir)
	if cfg.GoogleAIAPIKey != "env-key" {
		t.Errorf("api key: %q", cfg.GoogleAIAPIKey)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model: %q", cfg.Model)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("addr: %q", cfg.ListenAddr)
	}
	if cfg.MCPServerCommand != "node server.js" {
		t.Errorf("mcp command: %q", cfg.MCPServerCommand)
	}
	if cfg.ToolOutputMaxRunes != 2000 {
		t.Errorf("max runes: %d", cfg.ToolOutputMaxRunes)
	}
	if cfg.DBPath != filepath.Join(dir, "enrollchat.db") {
		t.Errorf("db path: %q", cfg.DBPath)
	}
}

func TestNew_ConfigFileOverridesEnv(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "env-key")
	t.Setenv("ENROLLCHAT_MODEL", "gemini-2.5-pro")

	dir := t.TempDir()
	file := `{"google_ai_api_key": "file-key", "max_tool_turns": 3}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := New(dir)
	if cfg.GoogleAIAPIKey != "file-key" {
		t.Errorf("file should win over env: %q", cfg.GoogleAIAPIKey)
	}
	// Keys absent from the file keep their env values.
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model: %q", cfg.Model)
	}
	if cfg.MaxToolTurns != 3 {
		t.Errorf("max tool turns: %d", cfg.MaxToolTurns)
	}
}
