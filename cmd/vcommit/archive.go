package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/archive"
)

func archiveCmd(flags *globalFlags) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "archive <scenario>",
		Short: "Replay a scenario and archive its journal",
		Long: `Replay a scenario and store its journal and pass summary.

The location is a directory or s3://bucket/prefix. S3 credentials
are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  vcommit archive list.yaml
  vcommit archive list.yaml --location s3://my-bucket/journals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E200").WithSuggestion("vcommit archive <scenario>")
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if location != "" {
				cfg.Archive.Location = location
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			ctx := cmd.Context()

			res, err := replay(ctx, cfg, logger, args[0], newMetrics(cfg, prometheus.NewRegistry()))
			if err != nil {
				return err
			}

			store, err := archive.Open(ctx, cfg.ArchiveLocation(),
				archive.WithRegion(cfg.Archive.Region),
				archive.WithEndpoint(cfg.Archive.Endpoint),
				archive.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			m, err := archive.Write(ctx, store, res, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, loc := range m.Locations {
				success(out, "Archived %s", loc)
			}
			info(out, "Run %s (%s)", m.RunID, m.Digest)
			return checkResult(res)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Archive location (default from vcommit.json)")

	return cmd
}
