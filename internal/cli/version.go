package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintf(a.stdout, "picross-capture %s\n", a.info.Version)
			fmt.Fprintf(a.stdout, "  Build time: %s\n", a.info.BuildTime)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", a.info.GitCommit)
			return nil
		},
	}
}
