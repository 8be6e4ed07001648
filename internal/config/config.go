package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultModel is used when no model id is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds runtime configuration. Secrets (the API key) are read from
// the environment or from the config dir at runtime; never committed.
type Config struct {
	// GoogleAIAPIKey is set from env GOOGLE_AI_API_KEY or from config file.
	GoogleAIAPIKey string `json:"google_ai_api_key"`
	// Model is the Gemini model id (e.g. gemini-2.5-flash).
	Model string `json:"model"`
	// MCPServerCommand is the tool-server command line, split on whitespace
	// (e.g. "node /srv/mcp-enrollment/dist/index.js").
	MCPServerCommand string `json:"mcp_server_command"`
	// ListenAddr is the HTTP listen address (e.g. ":3100").
	ListenAddr string `json:"listen_addr"`

	// ConfigDir is where config.json lives (ENROLLCHAT_CONFIG_DIR or .enrollchat).
	ConfigDir string `json:"-"`
	// DBPath is the path to enrollchat.db.
	DBPath string `json:"-"`

	// ToolOutputMaxRunes caps tool result length fed back to the model
	// (0 = no truncation). Set via ENROLLCHAT_TOOL_OUTPUT_MAX_RUNES.
	ToolOutputMaxRunes int `json:"tool_output_max_runes"`
	// MaxToolTurns bounds tool-execution rounds per request.
	MaxToolTurns int `json:"max_tool_turns"`
}

// DefaultConfigDir returns the default config directory (project-local
// .enrollchat if present, else ~/.config/enrollchat).
func DefaultConfigDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".enrollchat")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "enrollchat")
}

// New builds config from env and optional config dir. ConfigDir can be
// empty to use the default. A .env file in the working directory is loaded
// first so local setups can keep everything in one dotenv file.
func New(configDir string) *Config {
	_ = godotenv.Load()

	if configDir == "" {
		if d := os.Getenv("ENROLLCHAT_CONFIG_DIR"); d != "" {
			configDir = d
		} else {
			configDir = DefaultConfigDir()
		}
	}

	toolOutputMaxRunes := 0
	if v := os.Getenv("ENROLLCHAT_TOOL_OUTPUT_MAX_RUNES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			toolOutputMaxRunes = n
		}
	}
	addr := os.Getenv("ENROLLCHAT_ADDR")
	if addr == "" {
		addr = ":3100"
	}

	cfg := &Config{
		GoogleAIAPIKey:     os.Getenv("GOOGLE_AI_API_KEY"),
		Model:              os.Getenv("ENROLLCHAT_MODEL"),
		MCPServerCommand:   os.Getenv("ENROLLCHAT_MCP_COMMAND"),
		ListenAddr:         addr,
		ConfigDir:          configDir,
		DBPath:             filepath.Join(configDir, "enrollchat.db"),
		ToolOutputMaxRunes: toolOutputMaxRunes,
		MaxToolTurns:       5,
	}

	// Priority: Env < Config File. Keys present in JSON overwrite struct
	// fields; missing keys leave the env values untouched.
	configPath := filepath.Join(configDir, "config.json")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = json.Unmarshal(data, cfg)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxToolTurns <= 0 {
		cfg.MaxToolTurns = 5
	}
	return cfg
}
