package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/daybookhq/daybook/internal/config"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/kv"
	"github.com/daybookhq/daybook/internal/mcp"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "create": true, "edit": true,
	"attach": true, "gallery": true, "clear-cache": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___              __                 __
  / _ \___ ___ __  / /  ___  ___  ___ / /__
 / // / _ ` + "`" + `/ // / / _ \/ _ \/ _ \/ _ \  '_/
/____/\_,_/\_, / /_.__/\___/\___/\___/_/\_\
          /___/

  Quick notes and daily journals

  Usage: daybook <command> [options]
         daybook --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any store init (none needed)
	if isHelpOrVersion() {
		app := newCLIApp(&deps{})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".daybook")

	db, err := kv.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize local store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	mode, err := gallery.ParseMode(cfg.PhotoMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store, err := gallery.NewStore(filepath.Join(baseDir, "photos"), db, mode, cfg.ThumbnailMaxPx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize gallery: %v\n", err)
		os.Exit(1)
	}

	cache := overrides.NewCache(db)

	// The remote client is built on first use so local-only commands run
	// without DAYBOOK_API_URL and friends set.
	remote := func() (*wp.Client, error) {
		rc, err := config.LoadRemote()
		if err != nil {
			return nil, err
		}
		return wp.NewClient(rc), nil
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(&deps{remote: remote, cache: cache, store: store})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'daybook --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default) requires the remote configured.
	client, err := remote()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := mcp.Run(client, cache, store, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
