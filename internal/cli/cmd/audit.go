package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
	"github.com/bnema/mcp-docker/pkg/utils/humanize"
)

// ErrAuditDisabled is returned when no audit database is configured.
var ErrAuditDisabled = errors.New("audit trail is disabled, set audit.path or MCP_DOCKER_AUDIT_DB")

func NewAuditCommand(a *cli.App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent tool calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := a.Core(cmd.Context())
			if err != nil {
				return err
			}
			if core.Audit == nil {
				return ErrAuditDisabled
			}

			entries, err := core.Audit.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No tool calls recorded")
				return nil
			}

			failed := color.New(color.FgRed)
			ok := color.New(color.FgGreen)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTOOL\tDURATION\tRESULT\tARGUMENTS")
			for _, e := range entries {
				result := ok.Sprint("ok")
				if e.Error != "" {
					result = failed.Sprint(e.Error)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					humanize.TimeAgo(e.StartedAt),
					e.Tool,
					(time.Duration(e.DurationMS) * time.Millisecond).String(),
					result,
					e.Arguments)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "number", "n", 20, "number of entries to show")
	return cmd
}
