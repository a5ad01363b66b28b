package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/kiosk404/bioagent/internal/bioagent/options"
	"github.com/kiosk404/bioagent/internal/bioagent/session"
)

// NewCmdExport creates the `export` command.
func NewCmdExport(opts *options.Options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Export a stored research session as JSON or Markdown",
		Example: heredoc.Doc(`
			# List stored sessions
			bioagent export

			# Export a session as markdown
			bioagent export 2f6b4c1a --format=markdown

			# Export to a file
			bioagent export 2f6b4c1a --format=json --output=session.json`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := createConfig(opts)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()

			if len(args) == 0 {
				sessions, err := rt.store.List(ctx)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					fmt.Println("no stored sessions")
					return nil
				}
				table := uitable.New()
				table.AddRow("SESSION", "STARTED", "TURNS")
				for _, s := range sessions {
					table.AddRow(s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.TurnCount())
				}
				fmt.Println(table)
				return nil
			}

			s, err := rt.store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = session.ExportJSON(s)
				if err != nil {
					return err
				}
			case "markdown", "md":
				data = []byte(session.ExportMarkdown(s))
			default:
				return fmt.Errorf("unsupported format %q (must be 'json' or 'markdown')", format)
			}

			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			return os.WriteFile(output, data, 0644)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: 'json' or 'markdown'.")
	cmd.Flags().StringVar(&output, "output", "", "Write to a file instead of stdout.")
	return cmd
}
