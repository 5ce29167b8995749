package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/mercuryprefs/internal/settings"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Settings *settings.Store
}

// NewMCPServer creates an MCP server exposing the overlay preferences.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"mercuryprefs",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("mercuryprefs: read and change the trade overlay's saved preferences."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("get_setting",
			mcp.WithDescription("Read one scalar preference, or every preference when key is omitted."),
			mcp.WithString("key", mcp.Description("Preference key, e.g. minOpacity")),
		),
		mcpGetSetting(deps),
	)

	s.AddTool(
		mcp.NewTool("set_setting",
			mcp.WithDescription("Change one scalar preference and save it."),
			mcp.WithString("key", mcp.Description("Preference key, e.g. decayTime"), mcp.Required()),
			mcp.WithString("value", mcp.Description("New value in string form"), mcp.Required()),
		),
		mcpSetSetting(deps),
	)

	s.AddTool(
		mcp.NewTool("list_buttons",
			mcp.WithDescription("List the quick-reply buttons in display order."),
		),
		mcpListButtons(deps),
	)

	s.AddTool(
		mcp.NewTool("validate_game_path",
			mcp.WithDescription("Check whether a directory is a game install (has logs/Client.txt). Defaults to the saved game path."),
			mcp.WithString("path", mcp.Description("Directory to check")),
		),
		mcpValidateGamePath(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"settings://document",
			"Settings Document",
			mcp.WithResourceDescription("The settings file as currently written"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDocument(deps),
	)

	return s
}

func mcpGetSetting(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("key", "")
		if key == "" {
			b, err := json.MarshalIndent(deps.Settings.Values(), "", "  ")
			if err != nil {
				return mcpError(fmt.Sprintf("failed to marshal settings: %v", err)), nil
			}
			return mcpText(string(b)), nil
		}

		v, err := deps.Settings.Get(key)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(v), nil
	}
}

func mcpSetSetting(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		if err := deps.Settings.Set(key, value); err != nil {
			var fe *settings.FieldError
			if errors.As(err, &fe) || errors.Is(err, settings.ErrUnknownKey) {
				return mcpError(err.Error()), nil
			}
			return mcpError(fmt.Sprintf("failed to save setting: %v", err)), nil
		}

		v, _ := deps.Settings.Get(key)
		return mcpText(fmt.Sprintf("Set %s = %s", key, v)), nil
	}
}

func mcpListButtons(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Settings.Buttons())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal buttons: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpValidateGamePath(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir := req.GetString("path", "")
		if dir == "" {
			dir = deps.Settings.GamePath()
		}
		if dir == "" {
			return mcpError("no path given and no game path saved"), nil
		}
		if settings.IsValidGamePath(dir) {
			return mcpText(fmt.Sprintf("%s is a valid game path", dir)), nil
		}
		return mcpText(fmt.Sprintf("%s is not a valid game path: %s not found", dir, settings.ClientLogPath(dir))), nil
	}
}

func mcpResourceDocument(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(deps.Settings.Document()),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
