package cli

import (
	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		mcpserver.Version = Version
		return mcpserver.ServeStdio(cmd.Context(), s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
