package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA55")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DD3333")).Bold(true)
)

// setColor disables ANSI styling when colored is false.
func setColor(colored bool) {
	if !colored {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func printOK(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}
