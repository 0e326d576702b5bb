package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/hrid"
)

var (
	createKind   string
	createTitle  string
	createBody   string
	createTags   []string
	createParent []string
	createNS     string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new requirement",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}

		var ns []hrid.NamespaceSegment
		if createNS != "" {
			for _, part := range strings.Split(createNS, "-") {
				seg, err := hrid.NewNamespaceSegment(part)
				if err != nil {
					return err
				}
				ns = append(ns, seg)
			}
		}

		parents := make([]hrid.HRID, 0, len(createParent))
		for _, p := range createParent {
			parentHRID, err := parseHRIDArg(p)
			if err != nil {
				return err
			}
			parents = append(parents, parentHRID)
		}

		var created hrid.HRID
		err = s.Write(func(d *directory.Directory) error {
			req, err := d.AddRequirementWithParents(ns, createKind, createTitle, createBody, createTags, parents)
			if err != nil {
				return err
			}
			created = req.HRID
			return nil
		})
		if err != nil {
			return err
		}
		cmd.Println(created.String())
		return nil
	},
}

var (
	deleteOrphan  bool
	deleteCascade bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <hrid>",
	Short: "Delete a requirement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Write(func(d *directory.Directory) error {
			if deleteCascade {
				removed, err := d.DeleteCascade(h)
				if err != nil {
					return err
				}
				for _, rh := range removed {
					cmd.Printf("deleted %s\n", rh)
				}
				return nil
			}
			return d.DeleteRequirement(h, deleteOrphan)
		})
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <child-hrid> <parent-hrid>",
	Short: "Link a child requirement to a parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		child, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		parent, err := parseHRIDArg(args[1])
		if err != nil {
			return err
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		var alreadyLinked bool
		err = s.Write(func(d *directory.Directory) error {
			outcome, err := d.LinkRequirement(child, parent)
			if err != nil {
				return err
			}
			alreadyLinked = outcome.AlreadyLinked
			return nil
		})
		if err != nil {
			return err
		}
		if alreadyLinked {
			cmd.Println("already linked; fingerprint refreshed")
		}
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <child-hrid> <parent-hrid>",
	Short: "Remove a parent-child link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		child, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		parent, err := parseHRIDArg(args[1])
		if err != nil {
			return err
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Write(func(d *directory.Directory) error {
			return d.UnlinkRequirement(child, parent)
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <old-hrid> <new-hrid>",
	Short: "Rename a requirement, propagating the change to its children",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldHRID, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		newHRID, err := parseHRIDArg(args[1])
		if err != nil {
			return err
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Write(func(d *directory.Directory) error {
			return d.RenameRequirement(oldHRID, newHRID)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <hrid> <new-namespace>",
	Short: "Move a requirement to a new namespace, keeping its kind and id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		var ns []hrid.NamespaceSegment
		for _, part := range strings.Split(args[1], "-") {
			seg, err := hrid.NewNamespaceSegment(part)
			if err != nil {
				return err
			}
			ns = append(ns, seg)
		}
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Write(func(d *directory.Directory) error {
			return d.MoveRequirement(h, ns)
		})
	},
}

var syncCheckOnly bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Repair drift: refresh stale parent hrids and move files to their canonical paths, or report with --check",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		if syncCheckOnly {
			var drifted bool
			err = s.Read(func(d *directory.Directory) error {
				for _, h := range d.CheckHRIDDrift() {
					drifted = true
					cmd.Printf("%s: stale parent hrid\n", h)
				}
				for _, pd := range d.CheckPathDrift() {
					drifted = true
					cmd.Printf("%s: %s -> %s\n", pd.HRID, pd.ActualPath, pd.Canonical)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if drifted {
				exitWithCode(ExitDriftFound)
			}
			return nil
		}
		return s.Write(func(d *directory.Directory) error {
			for _, h := range d.UpdateHRIDs() {
				cmd.Printf("updated parent hrids in %s\n", h)
			}
			return d.SyncPaths()
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createKind, "kind", "", "requirement kind")
	createCmd.Flags().StringVar(&createTitle, "title", "", "requirement title")
	createCmd.Flags().StringVar(&createBody, "body", "", "requirement body")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "tag (repeatable)")
	createCmd.Flags().StringSliceVar(&createParent, "parent", nil, "parent hrid (repeatable)")
	createCmd.Flags().StringVar(&createNS, "namespace", "", "dash-separated namespace segments")
	_ = createCmd.MarkFlagRequired("kind")

	deleteCmd.Flags().BoolVar(&deleteOrphan, "orphan", false, "delete even if the requirement has children")
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", false, "also delete descendants whose only ancestry ran through this requirement")

	syncCmd.Flags().BoolVar(&syncCheckOnly, "check", false, "report drift without moving files")

	rootCmd.AddCommand(createCmd, deleteCmd, linkCmd, unlinkCmd, renameCmd, moveCmd, syncCmd)
}
