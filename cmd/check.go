package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/dtogen/pkg/action/check"
)

func NewCheckCommand() *cobra.Command {
	// checkCmd represents the dtogen check command
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "check generated transfer types",
		Long:  "Regenerate in memory and report transfer types that differ from the ones on disk",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindOptionFlags(c.Flags())
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			res, err := check.Run(c.Context(), afero.NewOsFs(), opts)
			if err != nil {
				return err
			}
			if res.UpToDate() {
				return nil
			}

			out := c.OutOrStdout()
			for _, p := range res.Missing {
				_, _ = fmt.Fprintf(out, "missing: %s\n", p)
			}
			for _, p := range res.Orphans {
				_, _ = fmt.Fprintf(out, "orphan:  %s\n", p)
			}
			for _, p := range res.Stale {
				_, _ = fmt.Fprintf(out, "stale:   %s\n%s\n", p, res.Diffs[p])
			}
			return errors.Newf("%d transfer types out of date", len(res.Missing)+len(res.Orphans)+len(res.Stale))
		},
	}
	addOptionFlags(checkCmd.Flags())

	return checkCmd
}
