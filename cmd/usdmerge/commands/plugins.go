package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/usdtools/usdmerge/pkg/plugins"
)

// newPluginsCmd creates the plugins listing command
func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: MsgPluginsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := plugins.All()
			if err != nil {
				return err
			}

			var md strings.Builder
			md.WriteString("# Bundled plugins\n\n")
			md.WriteString("Select plugins on the command line with the matching flag, e.g. `--nuke`.\n\n")
			for _, p := range all {
				fmt.Fprintf(&md, "## %s\n\n%s\n\n", p.Name, p.About)
				for _, f := range p.Files {
					fmt.Fprintf(&md, "- `%s`\n", f)
				}
				md.WriteString("\n")
			}

			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(md.String()))
			return nil
		},
	}
}

// renderMarkdown converts markdown to terminal output via glamour,
// falling back to the raw text when rendering is unavailable.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
