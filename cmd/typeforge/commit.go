package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"typeforge/internal/catalog"
	"typeforge/internal/pipeline"
)

const timingPrecision = time.Millisecond

var (
	commitSnapshot string
	commitUI       string
	commitJobs     int
	commitTriple   string
	commitPtrSize  int
)

func init() {
	commitCmd.Flags().StringVar(&commitSnapshot, "snapshot", "", "catalog snapshot to load and update")
	commitCmd.Flags().StringVar(&commitUI, "ui", "auto", "interactive progress display (auto|on|off)")
	commitCmd.Flags().IntVar(&commitJobs, "jobs", 0, "parse parallelism (0 = all CPUs)")
	commitCmd.Flags().StringVar(&commitTriple, "target", "x86_64-linux-gnu", "target triple for a fresh catalog")
	commitCmd.Flags().IntVar(&commitPtrSize, "ptr-size", 8, "pointer size in bytes for a fresh catalog")
}

var commitCmd = &cobra.Command{
	Use:   "commit <file.toml>...",
	Short: "Commit declaration files to a type catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := readUIMode(commitUI)
		if err != nil {
			return err
		}

		cat, err := openCatalog(commitSnapshot)
		if err != nil {
			return err
		}

		req := &pipeline.Request{
			Paths:        args,
			Jobs:         commitJobs,
			SnapshotPath: commitSnapshot,
		}

		var res pipeline.Result
		if shouldUseTUI(mode) {
			res, err = runPipelineWithUI(cmd.Context(), "typeforge commit", cat, req)
		} else {
			res, err = pipeline.Run(cmd.Context(), cat, req)
		}
		if err != nil {
			printCommitSummary(cmd, res)
			return err
		}
		printCommitSummary(cmd, res)
		return nil
	},
}

// openCatalog loads the snapshot when one exists, otherwise starts a fresh
// catalog for the requested target.
func openCatalog(snapshotPath string) (*catalog.Memory, error) {
	if snapshotPath != "" {
		cat, ok, err := catalog.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, err
		}
		if ok {
			return cat, nil
		}
	}
	if commitPtrSize <= 0 {
		return nil, fmt.Errorf("invalid --ptr-size %d", commitPtrSize)
	}
	return catalog.NewMemory(catalog.Target{Triple: commitTriple, PtrSize: commitPtrSize}), nil
}

func printCommitSummary(cmd *cobra.Command, res pipeline.Result) {
	if beQuiet(cmd) {
		return
	}
	okStyle := color.New(color.FgGreen)
	errStyle := color.New(color.FgRed)
	if !useColor(cmd, os.Stdout) {
		okStyle.DisableColor()
		errStyle.DisableColor()
	}
	out := cmd.OutOrStdout()
	for _, fr := range res.Files {
		switch {
		case fr.Err != nil:
			errStyle.Fprintf(out, "error  %s: %v\n", fr.Path, fr.Err)
		case fr.Committed != nil:
			okStyle.Fprintf(out, "ok     %s: %d type(s)\n", fr.Path, len(fr.Committed.Types))
		default:
			fmt.Fprintf(out, "skip   %s\n", fr.Path)
		}
	}
	fmt.Fprintf(out, "committed %d type(s) in %s\n", res.Types,
		res.Timings.Sum(pipeline.StageParse, pipeline.StageCommit, pipeline.StageSnapshot).Round(timingPrecision))
}
