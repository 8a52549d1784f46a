// Package manifest parses pip-style requirements.txt dependency manifests.
// The legacy journal application shipped as a Python project, and its
// manifest is the authoritative record of which libraries the old pipeline
// depended on. The batch indexer reads it to report what the import run
// replaces.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// packageNamePattern matches a valid package identifier per PEP 508:
// letters and digits, with single runs of ".", "-" or "_" between them.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// specifierPattern splits a requirement line into name and version constraint
var specifierPattern = regexp.MustCompile(`^([A-Za-z0-9._-]+)\s*(\[[^\]]*\])?\s*([<>=!~].*)?$`)

// Requirement is a single dependency declared in the manifest
type Requirement struct {
	Name       string `json:"name"`       // Package name as written
	Constraint string `json:"constraint"` // Version constraint, empty when unpinned
	Raw        string `json:"raw"`        // Original line text
	Line       int    `json:"line"`       // 1-based line number
}

// NormalizedName returns the canonical package name: lowercased, with runs
// of ".", "-" and "_" collapsed to a single "-".
func (r Requirement) NormalizedName() string {
	return NormalizeName(r.Name)
}

// NormalizeName canonicalizes a package name for comparison
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return regexp.MustCompile(`[._-]+`).ReplaceAllString(name, "-")
}

// Manifest is a parsed requirements.txt file
type Manifest struct {
	Requirements []Requirement `json:"requirements"`  // Active dependencies, in file order
	CommentedOut []Requirement `json:"commented_out"` // Dependencies disabled behind a "#" prefix
	Sections     []string      `json:"sections"`      // Comment lines used as section headers
}

// Parse reads a requirements manifest from r.
// The format is one package specifier per line; blank lines are skipped and
// "#"-prefixed lines are comments. A comment whose text is itself a valid
// all-lowercase package specifier is recorded as a commented-out dependency,
// since the legacy manifest used that convention for alternatives it never
// installed. Capitalized single words like "Core" are section headers, not
// packages.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			comment := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if comment == "" {
				continue
			}
			if req, ok := parseSpecifier(comment); ok && req.Name == strings.ToLower(req.Name) {
				req.Raw = raw
				req.Line = lineNum
				m.CommentedOut = append(m.CommentedOut, req)
			} else {
				m.Sections = append(m.Sections, comment)
			}
			continue
		}

		// Strip trailing inline comment
		spec := line
		if idx := strings.Index(spec, "#"); idx >= 0 {
			spec = strings.TrimSpace(spec[:idx])
		}

		req, ok := parseSpecifier(spec)
		if !ok {
			return nil, fmt.Errorf("line %d: invalid package specifier %q", lineNum, line)
		}
		req.Raw = raw
		req.Line = lineNum
		m.Requirements = append(m.Requirements, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return m, nil
}

// ParseFile reads and parses a requirements manifest from disk
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// parseSpecifier attempts to interpret s as a single package specifier.
// Multi-word text, URLs and prose do not qualify.
func parseSpecifier(s string) (Requirement, bool) {
	if s == "" || strings.ContainsAny(s, " \t/") {
		return Requirement{}, false
	}

	matches := specifierPattern.FindStringSubmatch(s)
	if matches == nil {
		return Requirement{}, false
	}

	name := matches[1]
	if !packageNamePattern.MatchString(name) {
		return Requirement{}, false
	}

	return Requirement{
		Name:       name,
		Constraint: strings.TrimSpace(matches[3]),
	}, true
}

// Active returns the normalized names of all installed dependencies
func (m *Manifest) Active() []string {
	names := make([]string, 0, len(m.Requirements))
	for _, req := range m.Requirements {
		names = append(names, req.NormalizedName())
	}
	return names
}

// CommentedOutNames returns the normalized names of dependencies that are
// present only as comments and would never be installed.
func (m *Manifest) CommentedOutNames() []string {
	names := make([]string, 0, len(m.CommentedOut))
	for _, req := range m.CommentedOut {
		names = append(names, req.NormalizedName())
	}
	return names
}

// HasActive reports whether the named package would be installed
func (m *Manifest) HasActive(name string) bool {
	normalized := NormalizeName(name)
	for _, req := range m.Requirements {
		if req.NormalizedName() == normalized {
			return true
		}
	}
	return false
}

// Validate checks structural invariants of the parsed manifest: every
// active requirement names a valid package, and no package appears both
// active and commented out.
func (m *Manifest) Validate() error {
	seen := make(map[string]int)
	for _, req := range m.Requirements {
		if !packageNamePattern.MatchString(req.Name) {
			return fmt.Errorf("line %d: invalid package name %q", req.Line, req.Name)
		}
		normalized := req.NormalizedName()
		if prev, ok := seen[normalized]; ok {
			return fmt.Errorf("line %d: duplicate requirement %q (first declared on line %d)", req.Line, req.Name, prev)
		}
		seen[normalized] = req.Line
	}

	for _, req := range m.CommentedOut {
		if _, ok := seen[req.NormalizedName()]; ok {
			return fmt.Errorf("line %d: package %q is both active and commented out", req.Line, req.Name)
		}
	}

	return nil
}
