package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typeforge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "typeforge",
	Short: "Typeforge type catalog toolchain",
	Long:  `Typeforge builds composite types from declaration files and commits them to a type catalog`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func beQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false
	}
	return quiet
}
