package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/reqconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the requirements root configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Read(func(d *directory.Directory) error {
			cfg := d.Config()
			cmd.Printf("digits: %d\n", cfg.Digits)
			cmd.Printf("subfolders_are_namespaces: %t\n", cfg.SubfoldersAreNamespaces)
			cmd.Printf("allow_unrecognised: %t\n", cfg.AllowUnrecognised)
			cmd.Printf("allowed_kinds: %v\n", cfg.SortedKinds())
			return nil
		})
	},
}

var configSetDigitsCmd = &cobra.Command{
	Use:   "set-digits <n>",
	Short: "Change the HRID zero-padding width",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		digits, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid digits %q: %w", args[0], err)
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.MutateConfig(cmd.Context(), func(cfg *reqconfig.Config) {
			cfg.Digits = digits
		})
	},
}

var configLayoutSubfolders bool

var configSetLayoutCmd = &cobra.Command{
	Use:   "set-layout",
	Short: "Switch between filename and path-based layout modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.MutateConfig(cmd.Context(), func(cfg *reqconfig.Config) {
			cfg.SubfoldersAreNamespaces = configLayoutSubfolders
		})
	},
}

func init() {
	configSetLayoutCmd.Flags().BoolVar(&configLayoutSubfolders, "subfolders-are-namespaces", false, "use path-mode layout")

	configCmd.AddCommand(configShowCmd, configSetDigitsCmd, configSetLayoutCmd)
	rootCmd.AddCommand(configCmd)
}
