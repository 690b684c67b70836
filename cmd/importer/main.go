package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	code := exitCode(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
	}
	stop()
	os.Exit(code)
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Resumable batch uploader of CSV part-files to the record API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default internal/importer/config/$ENV.yaml)")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	open := func() (*app.App, error) {
		return app.New(configPath)
	}

	root.AddCommand(
		newRunCmd(open),
		newStatusCmd(open),
		newTruncateCmd(open),
		newStubRemoteCmd(open),
	)
	return root
}

type opener func() (*app.App, error)

func newRunCmd(open opener) *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import every pending part-file of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.Run(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "Dataset name from the datasets file (required)")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "Continue from the recorded progress")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "Files per batch (default pacing.batch_size)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func newStatusCmd(open opener) *cobra.Command {
	var dataset string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the recorded progress of a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Status(dataset)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset name (required)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func newTruncateCmd(open opener) *cobra.Command {
	var (
		dataset string
		index   int
	)

	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "Rewind progress so files from --index on are processed again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Truncate(cmd.Context(), dataset, index)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset name (required)")
	cmd.Flags().IntVar(&index, "index", 0, "Number of completed files to keep (required)")
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func newStubRemoteCmd(open opener) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "stub-remote",
		Short: "Serve an in-memory record API for local rehearsals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.StubRemote(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default stub.addr)")

	return cmd
}
