// turtle animates turtle-graphics programs in the terminal or in a window.
//
// Usage:
//
//	turtle list                 - List available programs
//	turtle run <program|file>   - Run a program
//	turtle menu                 - Pick programs interactively
//	turtle gallery              - Browse saved drawings
//	turtle show <drawing-id>    - Print a saved drawing
//	turtle serve                - Start SSH server
//
// Global flags:
//
//	--fps <rate>      - Set frame rate (default: from config)
//	--config <path>   - Use a custom config YAML
//	--db <path>       - Set database path (default: ~/.turtle/drawings.db)
//	--log <path>      - Write logs to a file
//	--speed <preset>  - Speed preset: slow, normal, fast, instant
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-turtle/internal/config"
	"github.com/vovakirdan/tui-turtle/internal/programs"
	"github.com/vovakirdan/tui-turtle/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagConfig string
	flagDBPath string
	flagLog    string
	flagSpeed  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "turtle",
	Short: "Turtle graphics in your terminal",
	Long: `Turtle animates turtle-graphics programs: built-in drawings or your
own YAML files, in the terminal, in a desktop window or over SSH.

Available commands:
  list     - Show all available programs
  run      - Run a program
  menu     - Interactive program picker
  gallery  - Browse and replay saved drawings
  show     - Print a saved drawing
  serve    - Start SSH server

Programs found in ~/.turtle/programs/*.yaml are added to the list.

Examples:
  turtle list
  turtle run star
  turtle run ./house.yaml --speed fast
  turtle run tree --headless --save
  turtle serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if _, err := programs.RegisterDir(filepath.Join(config.DataDir(), "programs")); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping user programs: %v\n", err)
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.turtle/drawings.db", "Path to drawings database")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast, instant")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplySpeedPreset(&cfg, config.SpeedPreset(flagSpeed)); err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Screen.FPS = flagFPS
	}
	return cfg, nil
}

// fitTerminal fills in a zero screen size from the terminal, falling back
// to 80x24.
func fitTerminal(cfg *config.Config) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if cfg.Screen.Width == 0 {
		cfg.Screen.Width = width
	}
	if cfg.Screen.Height == 0 {
		cfg.Screen.Height = height
	}
}

// newLogger returns a file logger when --log is set, otherwise fallback.
// The returned func closes the file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	if flagLog == "" {
		return log.NewWithOptions(fallback, log.Options{ReportTimestamp: true, Prefix: "turtle"}), func() {}, nil
	}
	f, err := os.OpenFile(flagLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "turtle",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// openStore opens the drawings database. Failure is reported and the
// caller continues without storage.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open drawings database: %v\n", err)
		return nil
	}
	return store
}
