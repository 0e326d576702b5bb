// Package reqfile reads and writes one requirement as a markdown file
// with a YAML-frontmatter envelope, generalizing the split-then-unmarshal
// idiom of a plain frontmatter/body document splitter into the typed,
// tagged-version envelope a requirement needs.
package reqfile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/reqgraph/reqctl/internal/hrid"
)

// Errors surfaced while reading a requirement file.
var (
	ErrNoFrontmatter = errors.New("reqfile: missing or unterminated frontmatter block")
	ErrYAML          = errors.New("reqfile: invalid frontmatter yaml")
	ErrNoHeading     = errors.New("reqfile: no heading found in content")
	ErrHRID          = errors.New("reqfile: heading does not start with a valid hrid")
	ErrVersion       = errors.New("reqfile: unrecognized frontmatter version")
)

// ParentRef is one entry of the frontmatter's parents list.
type ParentRef struct {
	UUID        uuid.UUID
	Fingerprint string
	HRID        hrid.HRID
}

// Document is the fully parsed contents of one requirement file.
type Document struct {
	UUID    uuid.UUID
	Created time.Time
	Tags    []string
	Parents []ParentRef
	HRID    hrid.HRID
	Title   string
	Body    string
}

// frontMatter is the tagged-version envelope persisted in the YAML
// block. Only version "1" is recognized; an older allow_invalid field is
// accepted and discarded for compatibility.
type frontMatter struct {
	Version      string       `yaml:"_version"`
	UUID         uuid.UUID    `yaml:"uuid"`
	Created      time.Time    `yaml:"created"`
	Tags         []string     `yaml:"tags,omitempty"`
	Parents      []yamlParent `yaml:"parents,omitempty"`
	AllowInvalid *bool        `yaml:"allow_invalid,omitempty"`
}

type yamlParent struct {
	UUID        uuid.UUID `yaml:"uuid"`
	Fingerprint string    `yaml:"fingerprint"`
	HRID        string    `yaml:"hrid"`
}

// Parse splits content into a frontmatter block and a body block, then
// extracts the HRID and title from the first markdown heading.
func Parse(content []byte) (Document, error) {
	text := string(content)
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "---" {
		return Document{}, ErrNoFrontmatter
	}
	i++

	fmStart := i
	closeIdx := -1
	for j := i; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "---" {
			closeIdx = j
			break
		}
	}
	if closeIdx == -1 {
		return Document{}, ErrNoFrontmatter
	}
	fmBlock := strings.Join(lines[fmStart:closeIdx], "\n")
	rest := strings.Join(lines[closeIdx+1:], "\n")

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(fmBlock), &fm); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrYAML, err)
	}
	if fm.Version != "" && fm.Version != "1" {
		return Document{}, fmt.Errorf("%w: %q", ErrVersion, fm.Version)
	}

	h, title, body, err := parseContent(rest)
	if err != nil {
		return Document{}, err
	}

	parents := make([]ParentRef, 0, len(fm.Parents))
	for _, p := range fm.Parents {
		parentHRID, err := hrid.Parse(p.HRID)
		if err != nil {
			return Document{}, fmt.Errorf("%w: parent hrid %q: %v", ErrHRID, p.HRID, err)
		}
		parents = append(parents, ParentRef{UUID: p.UUID, Fingerprint: p.Fingerprint, HRID: parentHRID})
	}

	return Document{
		UUID:    fm.UUID,
		Created: fm.Created,
		Tags:    fm.Tags,
		Parents: parents,
		HRID:    h,
		Title:   title,
		Body:    body,
	}, nil
}

// parseContent finds the first line whose stripped form begins with '#',
// strips leading '#' characters and whitespace, parses the first
// whitespace-delimited token as an HRID, and returns the remainder of
// the heading as the title plus everything after the heading (trimmed)
// as the body.
func parseContent(content string) (hrid.HRID, string, string, error) {
	lines := strings.Split(content, "\n")
	headingIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			headingIdx = i
			break
		}
	}
	if headingIdx == -1 {
		return hrid.HRID{}, "", "", ErrNoHeading
	}

	afterHashes := strings.TrimLeft(strings.TrimSpace(lines[headingIdx]), "#")
	afterHashes = strings.TrimSpace(afterHashes)

	fields := strings.Fields(afterHashes)
	if len(fields) == 0 {
		return hrid.HRID{}, "", "", fmt.Errorf("%w: empty heading", ErrHRID)
	}
	firstToken := fields[0]
	h, err := hrid.Parse(firstToken)
	if err != nil {
		return hrid.HRID{}, "", "", fmt.Errorf("%w: %v", ErrHRID, err)
	}

	title := strings.TrimSpace(strings.TrimPrefix(afterHashes, firstToken))
	body := strings.TrimSpace(strings.Join(lines[headingIdx+1:], "\n"))

	return h, title, body, nil
}

// Render emits the canonical file text for doc: the frontmatter block,
// the `# HRID title` heading, and the body (omitted when empty).
func Render(doc Document, digits int) ([]byte, error) {
	fm := frontMatter{
		Version: "1",
		UUID:    doc.UUID,
		Created: doc.Created,
	}
	if len(doc.Tags) > 0 {
		fm.Tags = doc.Tags
	}
	for _, p := range doc.Parents {
		fm.Parents = append(fm.Parents, yamlParent{
			UUID:        p.UUID,
			Fingerprint: p.Fingerprint,
			HRID:        p.HRID.Display(digits),
		})
	}

	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("reqfile: marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fmBytes)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s %s\n", doc.HRID.Display(digits), doc.Title)
	if doc.Body != "" {
		b.WriteString("\n")
		b.WriteString(doc.Body)
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}
