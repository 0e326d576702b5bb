package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/graph"
	"github.com/reqgraph/reqctl/internal/hrid"
)

var showCmd = &cobra.Command{
	Use:   "show <hrid>",
	Short: "Show a requirement's content and relations",
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
		return s.Read(func(d *directory.Directory) error {
			req, ok := d.FindByHRID(h)
			if !ok {
				return graph.ErrNotFound
			}
			cmd.Printf("%s  %s\n", req.HRID, req.Content.Title)
			if len(req.Content.Tags) > 0 {
				cmd.Printf("tags: %v\n", req.Content.Tags)
			}
			cmd.Printf("created: %s\n", humanize.Time(req.Content.Created))
			for _, p := range req.Parents {
				cmd.Printf("parent: %s\n", p.HRID)
			}
			cmd.Printf("children: %d\n", len(req.Children))
			if req.Content.Body != "" {
				cmd.Println()
				cmd.Println(req.Content.Body)
			}
			return nil
		})
	},
}

var listKindFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List requirements",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Read(func(d *directory.Directory) error {
			for _, req := range d.List() {
				if listKindFilter != "" && string(req.HRID.Kind) != listKindFilter {
					continue
				}
				cmd.Printf("%s  %s\n", req.HRID, req.Content.Title)
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the requirements root: counts, suspect links, drift, cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		var issues bool
		err = s.Read(func(d *directory.Directory) error {
			reqs := d.List()
			cmd.Printf("%s requirements\n", humanize.Comma(int64(len(reqs))))

			suspects := d.SuspectLinks()
			if len(suspects) > 0 {
				issues = true
			}
			cmd.Printf("%d suspect link(s)\n", len(suspects))

			hridDrift := d.CheckHRIDDrift()
			if len(hridDrift) > 0 {
				issues = true
			}
			cmd.Printf("%d hrid drift(s)\n", len(hridDrift))

			pathDrift := d.CheckPathDrift()
			if len(pathDrift) > 0 {
				issues = true
			}
			cmd.Printf("%d path drift(s)\n", len(pathDrift))

			cycles := d.DetectCycles()
			if len(cycles) > 0 {
				issues = true
			}
			cmd.Printf("%d cycle(s)\n", len(cycles))
			return nil
		})
		if err != nil {
			return err
		}
		if issues {
			exitWithCode(ExitDriftFound)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Fail with exit code 2 if any cycles or path drift are found",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		var bad bool
		err = s.Read(func(d *directory.Directory) error {
			cycles := d.DetectCycles()
			for _, c := range cycles {
				bad = true
				cmd.PrintErrln("cycle: " + formatCyclePath(c))
			}
			for _, h := range d.CheckHRIDDrift() {
				bad = true
				cmd.PrintErrf("hrid drift: %s\n", h)
			}
			for _, pd := range d.CheckPathDrift() {
				bad = true
				cmd.PrintErrf("path drift: %s is at %s, canonical is %s\n", pd.HRID, pd.ActualPath, pd.Canonical)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if bad {
			exitWithCode(ExitDriftFound)
		}
		return nil
	},
}

func formatCyclePath(path []hrid.HRID) string {
	out := ""
	for i, h := range path {
		if i > 0 {
			out += " -> "
		}
		out += h.String()
	}
	return out
}

var reviewKindFilter string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List suspect links for interactive acceptance",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Read(func(d *directory.Directory) error {
			for _, link := range d.SuspectLinks() {
				if reviewKindFilter != "" && string(link.ChildHRID.Kind) != reviewKindFilter {
					continue
				}
				marker := "!"
				if isatty.IsTerminal(os.Stdout.Fd()) {
					marker = "⚠"
				}
				cmd.Printf("%s %s depends on %s (fingerprint changed)\n", marker, link.ChildHRID, link.ParentHRID)
			}
			return nil
		})
	},
}

var reviewAll bool

var reviewAcceptCmd = &cobra.Command{
	Use:   "review-accept [child-hrid parent-hrid]",
	Short: "Accept one suspect link, or all of them with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		if reviewAll {
			return s.Write(func(d *directory.Directory) error {
				accepted, skipped := d.AcceptAllSuspectLinks()
				cmd.Printf("accepted %d, skipped %d\n", len(accepted), len(skipped))
				for _, skip := range skipped {
					cmd.PrintErrf("skipped: %s\n", skip.Reason)
				}
				return nil
			})
		}
		if len(args) != 2 {
			return fmt.Errorf("review-accept requires <child-hrid> <parent-hrid> unless --all is set")
		}
		child, err := parseHRIDArg(args[0])
		if err != nil {
			return err
		}
		parent, err := parseHRIDArg(args[1])
		if err != nil {
			return err
		}
		return s.Write(func(d *directory.Directory) error {
			_, err := d.AcceptSuspectLink(child, parent)
			return err
		})
	},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Print detailed cycle and drift diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openState(cmd)
		if err != nil {
			return err
		}
		return s.Read(func(d *directory.Directory) error {
			cycles := d.DetectCycles()
			cmd.Printf("%s cycle(s)\n", humanize.Comma(int64(len(cycles))))
			for _, c := range cycles {
				cmd.Println("  " + formatCyclePath(c))
			}
			hridDrift := d.CheckHRIDDrift()
			cmd.Printf("%s hrid drift(s)\n", humanize.Comma(int64(len(hridDrift))))
			for _, h := range hridDrift {
				cmd.Printf("  %s\n", h)
			}
			pathDrift := d.CheckPathDrift()
			cmd.Printf("%s path drift(s)\n", humanize.Comma(int64(len(pathDrift))))
			for _, pd := range pathDrift {
				cmd.Printf("  %s: %s -> %s\n", pd.HRID, pd.ActualPath, pd.Canonical)
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listKindFilter, "kind", "", "filter by kind")
	reviewCmd.Flags().StringVar(&reviewKindFilter, "kind", "", "filter by child kind")
	reviewAcceptCmd.Flags().BoolVar(&reviewAll, "all", false, "accept every suspect link")

	rootCmd.AddCommand(showCmd, listCmd, statusCmd, validateCmd, reviewCmd, reviewAcceptCmd, diagnoseCmd)
}
