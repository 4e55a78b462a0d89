package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSplitCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [files...]",
		Short: "Move docstrings out of stub files into .ds files",
		Long: `Split rewrites each stub without its docstrings and writes the docstrings,
with the signatures they belong to, to a .ds file under the doc root.
Without file arguments every stub under the stub root is processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.runner.KeepGoing = opts.keepGoing

			ctx := cmd.Context()
			files, err := a.targets(ctx, args, opts.since)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "✅ No stub files to split.")
				return nil
			}

			fmt.Fprintf(out, "✂️  Splitting %d stub files...\n", len(files))
			sum, err := a.runner.Split(ctx, files)
			fmt.Fprintf(out, "✅ Split %d files, moved %d docstrings", sum.Processed, sum.Docstrings)
			if sum.Failed > 0 {
				fmt.Fprintf(out, ", %d failed", sum.Failed)
			}
			fmt.Fprintln(out, ".")
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Continue after a failed file")
	cmd.Flags().BoolVar(&opts.noStrict, "no-strict", false, "Skip the unsupported-construct check")
	return cmd
}

func newCombineCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [files...]",
		Short: "Merge docstrings from .ds files back into stub files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.runner.KeepGoing = opts.keepGoing

			ctx := cmd.Context()
			files, err := a.targets(ctx, args, opts.since)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "✅ No stub files to combine.")
				return nil
			}

			fmt.Fprintf(out, "🧩 Combining %d stub files...\n", len(files))
			sum, err := a.runner.Combine(ctx, files)
			fmt.Fprintf(out, "✅ Combined %d files, merged %d definitions", sum.Processed, sum.Matched)
			if sum.Orphans > 0 {
				fmt.Fprintf(out, ", %d orphaned", sum.Orphans)
			}
			if sum.Failed > 0 {
				fmt.Fprintf(out, ", %d failed", sum.Failed)
			}
			fmt.Fprintln(out, ".")
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Continue after a failed file")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report nested definitions and multi-line signatures",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			files, err := a.targets(ctx, args, opts.since)
			if err != nil {
				return err
			}
			results, err := a.runner.Check(ctx, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "✅ %d stub files can be split safely.\n", len(files))
				return nil
			}
			for _, res := range results {
				fmt.Fprintf(out, "⚠️  %s\n", res.Path)
				for _, issue := range res.Issues {
					fmt.Fprintf(out, "    %s\n", issue)
				}
			}
			return fmt.Errorf("%d of %d stub files have unsupported constructs", len(results), len(files))
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status [files...]",
		Short: "Show the last journaled operation of each stub file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			files, err := a.targets(ctx, args, opts.since)
			if err != nil {
				return err
			}
			statuses, err := a.runner.Status(ctx, files)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tSTATE\tDOC\tLAST")
			for _, st := range statuses {
				doc := "-"
				if st.HasDoc {
					doc = "yes"
				}
				last := "-"
				if st.Last != nil {
					last = fmt.Sprintf("%s %s", st.Last.Op, st.Last.CreatedAt.Format(time.DateTime))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Path, st.State, doc, last)
			}
			return w.Flush()
		},
	}
}
