package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-turtle/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available programs",
	Long:  `Shows every registered program: built-ins, bundled YAML examples and files from ~/.turtle/programs.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	progs := registry.List()

	if len(progs) == 0 {
		fmt.Println("No programs available.")
		return
	}

	fmt.Println("Available programs:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range progs {
		maxIDLen = max(maxIDLen, len(p.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, p := range progs {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'turtle run <id>' to draw one.")
}
