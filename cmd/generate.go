package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/dtogen/internal/watch"
	"github.com/cmmoran/dtogen/pkg/action/generate"
)

func NewGenerateCommand() *cobra.Command {
	var (
		watchMode bool
		debounce  = watch.DefaultDebounce
	)

	// generateCmd represents the dtogen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate transfer types",
		Long:  "Generate one serializable transfer type per model type found in the schemas",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindOptionFlags(c.Flags())
		},
		RunE: func(c *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			opts, err := loadOptions()
			if err != nil {
				return err
			}

			_, err = generate.Run(c.Context(), fs, opts)
			if !watchMode {
				return err
			}
			if err != nil {
				slog.Default().With("error", err).Error("generation failed, waiting for schema changes")
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(opts.Schemas, debounce)
			if err != nil {
				return err
			}
			w.Ignore(opts.OutDir)
			return w.Run(ctx, func(ctx context.Context) error {
				opts, err := loadOptions()
				if err != nil {
					return err
				}
				_, err = generate.Run(ctx, fs, opts)
				return err
			})
		},
	}
	addOptionFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "keep running and regenerate when schemas change")
	generateCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period after a schema change before regenerating")

	return generateCmd
}
