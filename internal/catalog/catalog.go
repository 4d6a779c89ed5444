// Package catalog holds the static list of projects shown on the portfolio.
package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is one showcase card. Demo is empty when the project has no live demo.
type Project struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	ImageAlt    string   `yaml:"image_alt"`
	Skills      []string `yaml:"skills"`
	Code        string   `yaml:"code"`
	Demo        string   `yaml:"demo"`
}

// HasCode reports whether the source-code button should be shown.
func (p Project) HasCode() bool {
	return strings.TrimSpace(p.Code) != ""
}

// HasDemo reports whether the demo link is good enough to display.
func (p Project) HasDemo() bool {
	return IsValidDemoLink(p.Demo)
}

// Catalog is read-only after Parse.
type Catalog struct {
	projects []Project
	byID     map[int]int
}

// Parse decodes a YAML document of the form `projects: [...]`.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Projects []Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(doc.Projects)
}

// New builds a catalog, rejecting duplicate or non-positive ids and untitled records.
func New(projects []Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]Project, 0, len(projects)),
		byID:     make(map[int]int, len(projects)),
	}
	for _, p := range projects {
		if p.ID <= 0 {
			return nil, fmt.Errorf("project %q: id must be positive, got %d", p.Title, p.ID)
		}
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("project %d: title is required", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("project %d: duplicate id", p.ID)
		}
		c.byID[p.ID] = len(c.projects)
		c.projects = append(c.projects, p)
	}
	return c, nil
}

// Projects returns the records in catalog order. The slice must not be modified.
func (c *Catalog) Projects() []Project {
	return c.projects
}

// Lookup finds a project by id.
func (c *Catalog) Lookup(id int) (Project, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// IsValidDemoLink reports whether demo is worth rendering as a "Demo" button:
// non-blank, not one of the placeholder values "#" or "none", and an http(s) URL.
func IsValidDemoLink(demo string) bool {
	v := strings.TrimSpace(demo)
	if v == "" || v == "#" || strings.EqualFold(v, "none") {
		return false
	}
	lower := strings.ToLower(v)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
