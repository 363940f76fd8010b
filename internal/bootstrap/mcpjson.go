package bootstrap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MCPFileName is the MCP client configuration file.
const MCPFileName = ".mcp.json"

// mcpServerName is the key of the vidlens entry in .mcp.json.
const mcpServerName = "vidlens"

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// mcpServerEntry is the vidlens MCP server configuration.
type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// GenerateMCPConfig creates .mcp.json in dir, or adds the vidlens entry to
// an existing one. Other servers in the file are preserved.
func GenerateMCPConfig(dir string) (Action, error) {
	mcpPath := filepath.Join(dir, MCPFileName)

	cfg := mcpConfig{MCPServers: map[string]json.RawMessage{}}
	operation, description := "created", "created with vidlens MCP server entry"

	existing, err := FS.ReadFile(mcpPath)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(existing, &cfg); jsonErr != nil {
			return Action{}, fmt.Errorf("parsing %s: %w", MCPFileName, jsonErr)
		}
		if _, ok := cfg.MCPServers[mcpServerName]; ok {
			return Action{
				File:        MCPFileName,
				Operation:   "skipped",
				Description: "vidlens MCP server already configured",
			}, nil
		}
		if cfg.MCPServers == nil {
			cfg.MCPServers = map[string]json.RawMessage{}
		}
		operation, description = "updated", "added vidlens MCP server entry"
	case !os.IsNotExist(err):
		return Action{}, fmt.Errorf("reading %s: %w", MCPFileName, err)
	}

	entry, err := json.Marshal(mcpServerEntry{Command: "vidlens", Args: []string{"mcp", "serve"}})
	if err != nil {
		return Action{}, fmt.Errorf("marshaling MCP server entry: %w", err)
	}
	cfg.MCPServers[mcpServerName] = entry

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return Action{}, fmt.Errorf("marshaling %s: %w", MCPFileName, err)
	}
	data = append(data, '\n')

	if err := FS.WriteFile(mcpPath, data, 0o644); err != nil {
		return Action{}, fmt.Errorf("writing %s: %w", MCPFileName, err)
	}
	return Action{File: MCPFileName, Operation: operation, Description: description}, nil
}
