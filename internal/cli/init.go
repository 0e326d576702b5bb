package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/reqconfig"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a requirements root",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(rootDir, 0o755); err != nil {
			return err
		}
		configPath := filepath.Join(rootDir, reqconfig.FileName)
		if _, err := os.Stat(configPath); err == nil {
			printErr("config already exists at %s", configPath)
			exitWithCode(ExitDriftFound)
			return nil
		}
		if err := reqconfig.SaveToRoot(rootDir, reqconfig.Default()); err != nil {
			return err
		}
		cmd.Printf("initialized requirements root at %s\n", rootDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
