package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/kiosk404/bioagent/internal/bioagent/mcp"
	"github.com/kiosk404/bioagent/internal/bioagent/options"
)

// NewCmdServers creates the `servers` command.
func NewCmdServers(opts *options.Options) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Show configured MCP servers and their connection status",
		Example: heredoc.Doc(`
			# Connect and show server status
			bioagent servers

			# Also run a liveness probe against each connected server
			bioagent servers --check`),
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
			outcomes, _ := rt.manager.ConnectAll(ctx)
			_ = rt.registry.RegisterAll()
			rt.registry.RefreshAll(ctx)

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("SERVER", "STATUS", "TOOLS", "ENDPOINT", "DETAIL")
			for _, desc := range rt.manager.Descriptors() {
				status := rt.manager.Status(desc.ID)
				detail := ""
				if err := outcomes[desc.ID]; err != nil {
					detail = err.Error()
				}
				if check && status == mcp.ServerStatusConnected {
					if err := rt.manager.HealthCheck(ctx, desc.ID); err != nil {
						detail = err.Error()
						status = rt.manager.Status(desc.ID)
					}
				}
				table.AddRow(desc.ID, status.String(), len(rt.registry.ToolsByServer(desc.ID)), desc.Endpoint, detail)
			}
			fmt.Println(table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Run a liveness probe against each connected server.")
	return cmd
}
