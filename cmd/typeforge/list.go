package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"typeforge/internal/catalog"
)

var listSnapshot string

func init() {
	listCmd.Flags().StringVar(&listSnapshot, "snapshot", "", "catalog snapshot to read")
	_ = listCmd.MarkFlagRequired("snapshot")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the types recorded in a catalog snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, ok, err := catalog.LoadSnapshot(listSnapshot)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("snapshot %q does not exist", listSnapshot)
		}

		infos := cat.List()
		if len(infos) == 0 {
			if !beQuiet(cmd) {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
			}
			return nil
		}

		header := color.New(color.Bold)
		if !useColor(cmd, os.Stdout) {
			header.DisableColor()
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		header.Fprintln(w, "ORDINAL\tKIND\tNAME\tSIZE\tFINAL")
		for _, info := range infos {
			final := ""
			if info.Finalized {
				final = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", info.Ordinal, info.Kind, info.Name, info.Size, final)
		}
		return w.Flush()
	},
}
