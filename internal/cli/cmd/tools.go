package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bnema/mcp-docker/internal/cli"
)

var (
	toolNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Width(22)
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func NewToolsCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools and resources exposed to MCP clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := a.Core(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading := color.New(color.FgHiWhite, color.Bold)

			heading.Fprintln(out, "Tools")
			for _, tool := range core.Dispatcher.Tools() {
				fmt.Fprintf(out, "  %s %s\n", toolNameStyle.Render(tool.Name), tool.Description)
				if req := requiredArgs(tool.InputSchema); len(req) > 0 {
					fmt.Fprintf(out, "  %s %s\n", toolNameStyle.Render(""), requiredStyle.Render("requires: "+strings.Join(req, ", ")))
				}
			}

			fmt.Fprintln(out)
			heading.Fprintln(out, "Resources")
			for _, res := range core.Dispatcher.Resources() {
				fmt.Fprintf(out, "  %s %s\n", toolNameStyle.Render(res.URI), res.Description)
			}
			fmt.Fprintf(out, "  %s %s\n", toolNameStyle.Render("docker://container/<id>/logs"), "Recent container logs")
			fmt.Fprintf(out, "  %s %s\n", toolNameStyle.Render("docker://container/<id>/stats"), "Container resource usage")
			return nil
		},
	}
}

func requiredArgs(schema map[string]any) []string {
	var req []string
	switch v := schema["required"].(type) {
	case []string:
		req = append(req, v...)
	case []any:
		for _, r := range v {
			if s, ok := r.(string); ok {
				req = append(req, s)
			}
		}
	}
	sort.Strings(req)
	return req
}
