// Package content embeds the copy, profile and project catalog of the site.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/prateekydv01/portfolio/internal/catalog"
)

//go:embed about.md profile.yaml projects.yaml
var files embed.FS

// Social is an outbound profile link.
type Social struct {
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Profile is the site owner's contact card.
type Profile struct {
	Name     string   `yaml:"name"`
	Location string   `yaml:"location"`
	Phone    string   `yaml:"phone"`
	Email    string   `yaml:"email"`
	Resume   string   `yaml:"resume"`
	Socials  []Social `yaml:"socials"`
}

// Site is everything static the renderer needs, loaded once at startup.
type Site struct {
	Profile Profile
	About   template.HTML
	Catalog *catalog.Catalog
}

// Load reads the embedded content.
func Load() (*Site, error) {
	profile, err := files.ReadFile("profile.yaml")
	if err != nil {
		return nil, err
	}
	about, err := files.ReadFile("about.md")
	if err != nil {
		return nil, err
	}
	projects, err := files.ReadFile("projects.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(profile, about, projects)
}

// Parse builds a Site from raw profile YAML, about-me Markdown and catalog YAML.
func Parse(profileYAML, aboutMD, projectsYAML []byte) (*Site, error) {
	var p Profile
	if err := yaml.Unmarshal(profileYAML, &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile: name is required")
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var about bytes.Buffer
	if err := md.Convert(aboutMD, &about); err != nil {
		return nil, fmt.Errorf("rendering about: %w", err)
	}

	cat, err := catalog.Parse(projectsYAML)
	if err != nil {
		return nil, err
	}

	return &Site{
		Profile: p,
		// goldmark escapes raw HTML unless WithUnsafe is set.
		About:   template.HTML(about.String()),
		Catalog: cat,
	}, nil
}
