package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"securepass/ui"
	"securepass/vault"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	versionFlag = flag.Bool("version", false, "Print version information")
	helpFlag    = flag.Bool("help", false, "Show help")
	vaultFlag   = flag.String("vault", "", "Path to the vault file (default ~/.securepass.vault)")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("SecurePass v%s\n", Version)
		os.Exit(0)
	}

	if *helpFlag {
		fmt.Println("SecurePass - Secure Terminal Password Manager")
		fmt.Println("\nUsage:")
		fmt.Println("  securepass [flags]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Load configuration
	config := DefaultConfig()
	if *vaultFlag != "" {
		config.VaultPath = *vaultFlag
	}
	uiConfig := &ui.Config{
		InactivityTimeout: config.InactivityTimeout,
		ClipboardTimeout:  config.ClipboardTimeout,
	}

	// The manager owns all vault semantics; the TUI is a thin shell on top.
	manager := vault.NewManager(config.VaultPath, config.PBKDF2Iterations)

	// Create TUI application
	app := ui.NewApp(manager, uiConfig)
	defer app.Close()

	// Run app in goroutine to handle signals
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Handle signals in background
	go func() {
		<-sigCh
		app.Close()
		cancel()
		p.Quit()
	}()

	// Run the program
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
