// Package page models one visitor's view of the portfolio as a plain state
// struct. Every UI event maps to one method; the view package renders the result.
package page

import (
	"github.com/prateekydv01/portfolio/internal/contact"
)

// Section identifies an in-page anchor.
type Section string

const (
	Home     Section = "home"
	About    Section = "about"
	Projects Section = "projects"
	Contact  Section = "contact"
)

// Sections are the rendered anchors in top-to-bottom document order.
var Sections = []Section{Home, About, Projects, Contact}

// ParseSection returns the section with the given id.
func ParseSection(id string) (Section, bool) {
	for _, s := range Sections {
		if string(s) == id {
			return s, true
		}
	}
	return "", false
}

// State is everything that changes while a visitor is on the page.
type State struct {
	Active       Section      `json:"active"`
	MenuOpen     bool         `json:"menu_open"`
	BrokenImages map[int]bool `json:"broken_images,omitempty"`
	Form         contact.Form `json:"form"`
}

// New returns the state of a freshly loaded page.
func New() State {
	return State{Active: Home}
}

// ToggleMenu opens or closes the mobile navigation.
func (s *State) ToggleMenu() {
	s.MenuOpen = !s.MenuOpen
}

// Navigate handles a click on a navigation target. The mobile menu closes no
// matter what; the returned section is where the viewport should smoothly
// scroll, and ok is false when no such anchor is rendered.
func (s *State) Navigate(target string) (Section, bool) {
	s.MenuOpen = false
	return ParseSection(target)
}

// ImageFailed switches a project card to its placeholder for the rest of the
// session. Calling it again for the same project changes nothing.
func (s *State) ImageFailed(projectID int) {
	if s.BrokenImages == nil {
		s.BrokenImages = make(map[int]bool)
	}
	s.BrokenImages[projectID] = true
}

// ImageBroken reports whether the project's thumbnail failed to load.
func (s *State) ImageBroken(projectID int) bool {
	return s.BrokenImages[projectID]
}
