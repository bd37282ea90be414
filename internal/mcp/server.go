package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/daybookhq/daybook/internal/config"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"note", "gallery"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"note_list": {
		def:     noteListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteList },
	},
	"note_fetch": {
		def:     noteFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteFetch },
	},
	"note_save": {
		def:     noteSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteSave },
	},
	"note_create": {
		def:     noteCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteCreate },
	},
	"note_attach_image": {
		def:     noteAttachToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteAttach },
	},
	"gallery_list": {
		def:     galleryListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGalleryList },
	},
	"gallery_add": {
		def:     galleryAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGalleryAdd },
	},
	"gallery_delete": {
		def:     galleryDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGalleryDelete },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "note_save" → "note").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// NewServer creates a new MCP server with Daybook tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(client *wp.Client, cache *overrides.Cache, store *gallery.Store, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"daybook",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(client, cache, store)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(client *wp.Client, cache *overrides.Cache, store *gallery.Store, cfg *config.Config, version string) error {
	s := NewServer(client, cache, store, cfg, version)
	return server.ServeStdio(s)
}
