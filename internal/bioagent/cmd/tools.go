package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/kiosk404/bioagent/internal/bioagent/options"
)

// NewCmdTools creates the `tools` command.
func NewCmdTools(opts *options.Options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed by the configured MCP servers",
		Example: heredoc.Doc(`
			# List every tool
			bioagent tools

			# Find tools mentioning "sequence"
			bioagent tools --search=sequence`),
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

			if err := rt.connect(cmd.Context()); err != nil {
				return err
			}

			tools := rt.registry.Search(search)
			if len(tools) == 0 {
				fmt.Println("no tools found")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 80
			table.AddRow("TOOL", "SERVER", "DESCRIPTION")
			for _, td := range tools {
				table.AddRow(td.Name, td.ServerID, wordwrap.WrapString(td.Description, 72))
			}
			fmt.Println(table)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring filter over name and description.")
	return cmd
}
