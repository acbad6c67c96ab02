package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/export"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		dir    string
		bucket string
		prefix string
		todos  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a static rendering of the demo app",
		Long: `Render the demo app once and store index.html and the initial ops
frame in a directory or an S3 bucket. S3 credentials come from
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  reactor export --dir=dist
  reactor export --bucket=my-site --prefix=demo/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Export.Dir = dir
				cfg.Export.Bucket = ""
			}
			if bucket != "" {
				cfg.Export.Bucket = bucket
			}
			if prefix != "" {
				cfg.Export.Prefix = prefix
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			store, err := export.NewStore(cfg.Export)
			if err != nil {
				return err
			}
			files, err := export.Site(demo.NewState(split(todos)...))
			if err != nil {
				return err
			}
			n, err := export.Write(ctx, store, files)
			if err != nil {
				return err
			}

			dest := cfg.Export.Dir
			if cfg.UseS3() {
				dest = "s3://" + cfg.Export.Bucket + "/" + strings.TrimPrefix(cfg.Export.Prefix, "/")
			}
			success("Exported %d files to %s", n, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (overrides config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (overrides config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "S3 key prefix")
	cmd.Flags().StringVar(&todos, "todos", "learn the keyed diff,ship it", "Initial todos, comma separated")

	return cmd
}
