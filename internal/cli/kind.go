package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/reqconfig"
)

var kindCmd = &cobra.Command{
	Use:   "kind",
	Short: "List or manage the allowed requirement kinds",
}

var kindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed kinds and their descriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Read(func(d *directory.Directory) error {
			cfg := d.Config()
			kinds := cfg.SortedKinds()
			if len(kinds) == 0 {
				cmd.Println("(any kind is allowed)")
				return nil
			}
			for _, k := range kinds {
				if meta, ok := cfg.MetadataForKind(k); ok && meta.Description != "" {
					cmd.Printf("%s  %s\n", k, meta.Description)
					continue
				}
				cmd.Println(k)
			}
			return nil
		})
	},
}

var kindAddDescription string

var kindAddCmd = &cobra.Command{
	Use:   "add <kind>",
	Short: "Allow a new requirement kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToUpper(args[0])
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.MutateConfig(cmd.Context(), func(cfg *reqconfig.Config) {
			cfg.AddKind(kind)
			if kindAddDescription != "" {
				cfg.SetKindDescription(kind, kindAddDescription)
			}
		})
	},
}

var kindRemoveCmd = &cobra.Command{
	Use:   "remove <kind>",
	Short: "Disallow a requirement kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToUpper(args[0])
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.MutateConfig(cmd.Context(), func(cfg *reqconfig.Config) {
			cfg.RemoveKind(kind)
		})
	},
}

func init() {
	kindAddCmd.Flags().StringVar(&kindAddDescription, "description", "", "human-readable description of the kind")

	kindCmd.AddCommand(kindListCmd, kindAddCmd, kindRemoveCmd)
	rootCmd.AddCommand(kindCmd)
}
