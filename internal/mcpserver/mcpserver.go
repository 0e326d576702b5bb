// Package mcpserver exposes the requirement graph over the Model
// Context Protocol: a thin tool facade atop internal/service, the way
// the CLI (internal/cli) is a thin cobra facade atop the same State.
// Input validation happens at this boundary; every tool handler below
// converts and validates its arguments before the core ever sees them.
package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reqgraph/reqctl/internal/directory"
	"github.com/reqgraph/reqctl/internal/graph"
	"github.com/reqgraph/reqctl/internal/hrid"
	"github.com/reqgraph/reqctl/internal/reqconfig"
	"github.com/reqgraph/reqctl/internal/service"
)

// Version is overridden at build time via -ldflags, matching the CLI's
// own version variable.
var Version = "dev"

// New builds an MCP server backed by state, registering every tool
// named in the RPC-style service interface.
func New(state *service.State) *server.MCPServer {
	s := server.NewMCPServer("reqctl", Version)

	registerListRequirementKinds(s, state)
	registerListRequirements(s, state)
	registerGetRequirement(s, state)
	registerGetChildren(s, state)
	registerGetParents(s, state)
	registerGetAncestors(s, state)
	registerGetDescendants(s, state)
	registerCreateRequirementKind(s, state)
	registerCreateRequirement(s, state)
	registerReview(s, state)
	registerReviewRequirement(s, state)

	return s
}

// ServeStdio runs the server over stdio, the collaborator transport named
// in §6. ctx is not passed to the stdio transport, so cancelling it does
// not stop the server.
func ServeStdio(ctx context.Context, state *service.State) error {
	s := New(state)
	return server.ServeStdio(s)
}

func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

func errResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func parseHRID(s string) (hrid.HRID, error) {
	parts := strings.Split(s, "-")
	if len(parts) >= 2 {
		i := len(parts) - 2
		parts[i] = strings.ToUpper(parts[i])
	}
	return hrid.Parse(strings.Join(parts, "-"))
}

func formatRequirement(req graph.Requirement, digits int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", req.HRID.Display(digits), req.Content.Title)
	fmt.Fprintf(&b, "uuid: %s\n", req.UUID)
	if len(req.Content.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(req.Content.Tags, ", "))
	}
	parents := make([]string, 0, len(req.Parents))
	for _, p := range req.Parents {
		parents = append(parents, p.HRID.Display(digits))
	}
	sort.Strings(parents)
	if len(parents) > 0 {
		fmt.Fprintf(&b, "parents: %s\n", strings.Join(parents, ", "))
	}
	if req.Content.Body != "" {
		b.WriteString("\n")
		b.WriteString(req.Content.Body)
		b.WriteString("\n")
	}
	return b.String()
}

func registerListRequirementKinds(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("list_requirement_kinds",
		mcp.WithDescription("List every requirement kind currently allowed, with its description if one is set."),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var out strings.Builder
		err := state.Read(func(d *directory.Directory) error {
			cfg := d.Config()
			kinds := cfg.SortedKinds()
			if len(kinds) == 0 {
				out.WriteString("(any kind is allowed; none has been explicitly registered)\n")
				return nil
			}
			for _, k := range kinds {
				if meta, ok := cfg.MetadataForKind(k); ok && meta.Description != "" {
					fmt.Fprintf(&out, "%s: %s\n", k, meta.Description)
					continue
				}
				fmt.Fprintf(&out, "%s\n", k)
			}
			return nil
		})
		if err != nil {
			return errResult(err)
		}
		return textResult(out.String()), nil
	})
}

func registerListRequirements(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("list_requirements",
		mcp.WithDescription("List requirements, optionally filtered by kind and a case-insensitive title/body substring query."),
		mcp.WithString("kind", mcp.Description("restrict to this KIND, e.g. \"USR\"")),
		mcp.WithString("query", mcp.Description("case-insensitive substring to match against title or body")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := strings.ToUpper(req.GetString("kind", ""))
		query := strings.ToLower(req.GetString("query", ""))

		var out strings.Builder
		err := state.Read(func(d *directory.Directory) error {
			digits := d.Config().Digits
			for _, r := range d.List() {
				if kind != "" && string(r.HRID.Kind) != kind {
					continue
				}
				if query != "" &&
					!strings.Contains(strings.ToLower(r.Content.Title), query) &&
					!strings.Contains(strings.ToLower(r.Content.Body), query) {
					continue
				}
				fmt.Fprintf(&out, "%s  %s\n", r.HRID.Display(digits), r.Content.Title)
			}
			return nil
		})
		if err != nil {
			return errResult(err)
		}
		if out.Len() == 0 {
			return textResult("(no matching requirements)"), nil
		}
		return textResult(out.String()), nil
	})
}

func registerGetRequirement(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("get_requirement",
		mcp.WithDescription("Fetch one requirement's content, tags, and relations by HRID."),
		mcp.WithString("hrid", mcp.Required(), mcp.Description("the requirement's human-readable identifier")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h, err := parseHRID(req.GetString("hrid", ""))
		if err != nil {
			return errResult(err)
		}
		var out string
		err = state.Read(func(d *directory.Directory) error {
			found, ok := d.FindByHRID(h)
			if !ok {
				return fmt.Errorf("%w: %s", graph.ErrNotFound, h)
			}
			out = formatRequirement(found, d.Config().Digits)
			return nil
		})
		if err != nil {
			return errResult(err)
		}
		return textResult(out), nil
	})
}

func listRelated(state *service.State, hridArg string, fn func(d *directory.Directory, h hrid.HRID) ([]hrid.HRID, error)) (*mcp.CallToolResult, error) {
	h, err := parseHRID(hridArg)
	if err != nil {
		return errResult(err)
	}
	var related []hrid.HRID
	var digits int
	err = state.Read(func(d *directory.Directory) error {
		digits = d.Config().Digits
		r, ferr := fn(d, h)
		related = r
		return ferr
	})
	if err != nil {
		return errResult(err)
	}
	if len(related) == 0 {
		return textResult("(none)"), nil
	}
	strs := make([]string, len(related))
	for i, rh := range related {
		strs[i] = rh.Display(digits)
	}
	return textResult(strings.Join(strs, "\n")), nil
}

func registerGetChildren(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("get_children",
		mcp.WithDescription("List the direct children (requirements that depend on this one) of an HRID."),
		mcp.WithString("hrid", mcp.Required()),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listRelated(state, req.GetString("hrid", ""), func(d *directory.Directory, h hrid.HRID) ([]hrid.HRID, error) {
			found, ok := d.FindByHRID(h)
			if !ok {
				return nil, fmt.Errorf("%w: %s", graph.ErrNotFound, h)
			}
			// Children are stored as uuids on the reconstructed view;
			// resolve each to its current HRID.
			byUUID := make(map[string]hrid.HRID, len(found.Children))
			for _, r := range d.List() {
				byUUID[r.UUID.String()] = r.HRID
			}
			out := make([]hrid.HRID, 0, len(found.Children))
			for _, id := range found.Children {
				if h, ok := byUUID[id.String()]; ok {
					out = append(out, h)
				}
			}
			sort.Slice(out, func(i, j int) bool { return hrid.Compare(out[i], out[j]) < 0 })
			return out, nil
		})
	})
}

func registerGetParents(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("get_parents",
		mcp.WithDescription("List the direct parents of an HRID."),
		mcp.WithString("hrid", mcp.Required()),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listRelated(state, req.GetString("hrid", ""), func(d *directory.Directory, h hrid.HRID) ([]hrid.HRID, error) {
			found, ok := d.FindByHRID(h)
			if !ok {
				return nil, fmt.Errorf("%w: %s", graph.ErrNotFound, h)
			}
			out := make([]hrid.HRID, 0, len(found.Parents))
			for _, p := range found.Parents {
				out = append(out, p.HRID)
			}
			sort.Slice(out, func(i, j int) bool { return hrid.Compare(out[i], out[j]) < 0 })
			return out, nil
		})
	})
}

func registerGetAncestors(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("get_ancestors",
		mcp.WithDescription("List the full transitive closure of parents of an HRID."),
		mcp.WithString("hrid", mcp.Required()),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listRelated(state, req.GetString("hrid", ""), func(d *directory.Directory, h hrid.HRID) ([]hrid.HRID, error) {
			return d.Ancestors(h)
		})
	})
}

func registerGetDescendants(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("get_descendants",
		mcp.WithDescription("List the full transitive closure of children of an HRID."),
		mcp.WithString("hrid", mcp.Required()),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listRelated(state, req.GetString("hrid", ""), func(d *directory.Directory, h hrid.HRID) ([]hrid.HRID, error) {
			return d.Descendants(h)
		})
	})
}

func registerCreateRequirementKind(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("create_requirement_kind",
		mcp.WithDescription("Register a new allowed requirement KIND."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("uppercase-ASCII kind identifier, e.g. \"USR\"")),
		mcp.WithString("description", mcp.Description("human-readable description of the kind")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kindStr, err := hrid.NewKindString(strings.ToUpper(req.GetString("kind", "")))
		if err != nil {
			return errResult(err)
		}
		description := req.GetString("description", "")

		err = state.MutateConfig(ctx, func(cfg *reqconfig.Config) {
			cfg.AddKind(string(kindStr))
			if description != "" {
				cfg.SetKindDescription(string(kindStr), description)
			}
		})
		if err != nil {
			return errResult(err)
		}
		return textResult(fmt.Sprintf("kind %s registered", kindStr)), nil
	})
}

func registerCreateRequirement(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("create_requirement",
		mcp.WithDescription("Create a new requirement, auto-assigning the next index for its namespace and kind, optionally linking it to parents."),
		mcp.WithString("namespace", mcp.Description("dash-separated namespace segments, e.g. \"auth-api\"")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("requirement kind, e.g. \"USR\"")),
		mcp.WithString("title", mcp.Required()),
		mcp.WithString("body", mcp.Description("markdown body text")),
		mcp.WithString("parents", mcp.Description("comma-separated HRIDs of parent requirements to link immediately")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var ns []hrid.NamespaceSegment
		if raw := req.GetString("namespace", ""); raw != "" {
			for _, part := range strings.Split(raw, "-") {
				seg, err := hrid.NewNamespaceSegment(part)
				if err != nil {
					return errResult(err)
				}
				ns = append(ns, seg)
			}
		}

		title := req.GetString("title", "")
		body := req.GetString("body", "")
		kind := req.GetString("kind", "")

		var parents []hrid.HRID
		if raw := req.GetString("parents", ""); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				h, err := parseHRID(part)
				if err != nil {
					return errResult(fmt.Errorf("parent %q: %w", part, err))
				}
				parents = append(parents, h)
			}
		}

		var created hrid.HRID
		err := state.Write(func(d *directory.Directory) error {
			r, err := d.AddRequirementWithParents(ns, kind, title, body, nil, parents)
			if err != nil {
				return err
			}
			created = r.HRID
			return nil
		})
		if err != nil {
			return errResult(err)
		}
		return textResult(created.String()), nil
	})
}

func registerReview(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("review",
		mcp.WithDescription("List suspect links (edges whose stored parent fingerprint no longer matches the parent's current content), optionally filtered by the child's kind."),
		mcp.WithString("kind", mcp.Description("restrict to children of this KIND")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := strings.ToUpper(req.GetString("kind", ""))
		var out strings.Builder
		err := state.Read(func(d *directory.Directory) error {
			digits := d.Config().Digits
			for _, link := range d.SuspectLinks() {
				if kind != "" && string(link.ChildHRID.Kind) != kind {
					continue
				}
				fmt.Fprintf(&out, "%s depends on %s (fingerprint changed)\n", link.ChildHRID.Display(digits), link.ParentHRID.Display(digits))
			}
			return nil
		})
		if err != nil {
			return errResult(err)
		}
		if out.Len() == 0 {
			return textResult("(no suspect links)"), nil
		}
		return textResult(out.String()), nil
	})
}

func registerReviewRequirement(s *server.MCPServer, state *service.State) {
	tool := mcp.NewTool("review_requirement",
		mcp.WithDescription("Accept a suspect link, refreshing its stored fingerprint to the parent's current content."),
		mcp.WithString("child", mcp.Required()),
		mcp.WithString("parent", mcp.Required()),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		child, err := parseHRID(req.GetString("child", ""))
		if err != nil {
			return errResult(err)
		}
		parent, err := parseHRID(req.GetString("parent", ""))
		if err != nil {
			return errResult(err)
		}

		var changed bool
		err = state.Write(func(d *directory.Directory) error {
			c, werr := d.AcceptSuspectLink(child, parent)
			changed = c
			return werr
		})
		if err != nil {
			return errResult(err)
		}
		if !changed {
			return textResult("no change (fingerprint already current)"), nil
		}
		return textResult("accepted"), nil
	})
}
