package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hamed0406/sitecheck/internal/targets"
)

func newValidateCmd() *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate target files without making any request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateFiles(files, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "target file or glob, repeatable")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func validateFiles(files []string, out io.Writer) error {
	if len(files) == 0 {
		return errors.New("at least one --file is required")
	}
	f, err := targets.LoadAll(files)
	if err != nil {
		return err
	}
	if len(f.Targets) == 0 {
		return fmt.Errorf("no targets in %v", files)
	}
	cfg := f.Apply(defaultConfig)
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(out, "OK: %d targets, %d workers, timeout %s, max retries %d, retry backoff %s\n",
		len(f.Targets), cfg.Workers, cfg.Timeout, cfg.MaxRetries, cfg.RetryBackoff)
	return nil
}
