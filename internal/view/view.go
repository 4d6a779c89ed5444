// Package view turns page state into markup. Every builder here is a pure
// function of the state and the static site content; the templates do the rest.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prateekydv01/portfolio/internal/catalog"
	"github.com/prateekydv01/portfolio/internal/contact"
	"github.com/prateekydv01/portfolio/internal/content"
	"github.com/prateekydv01/portfolio/internal/page"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded CSS and script assets, rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer holds the parsed templates and the content they are filled with.
type Renderer struct {
	tmpl *template.Template
	site *content.Site
	year int
}

// New parses the embedded templates.
func New(site *content.Site) (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, site: site, year: time.Now().Year()}, nil
}

// Templates exposes the template set, e.g. for gin's SetHTMLTemplate.
func (r *Renderer) Templates() *template.Template {
	return r.tmpl
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// Page is the full document.
type Page struct {
	Title         string
	Profile       content.Profile
	PhoneHref     template.URL
	Headline      string
	Tagline       string
	Intro         string
	Specialties   []string
	About         template.HTML
	Skills        []string
	Header        Header
	Cards         []Card
	Form          ContactForm
	Stars         []Star
	Year          int
	FooterNote    string
	FooterTagline string
}

// Header is the fixed navigation bar.
type Header struct {
	Owner    string
	Resume   string
	Nav      []NavItem
	MenuOpen bool
}

// NavItem is one navigation button.
type NavItem struct {
	ID     string
	Label  string
	Active bool
}

// Card is one project in the showcase.
type Card struct {
	catalog.Project
	Broken   bool
	Glyph    string
	ShowCode bool
	ShowDemo bool
}

// ContactForm is the form panel including its banners.
type ContactForm struct {
	Inputs        []Input
	Submitting    bool
	Submitted     bool
	Failure       string
	SuccessBanner string
}

// Input is one labelled form control.
type Input struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       FieldError
}

// FieldError is the message slot below an input. An empty Message renders hidden.
type FieldError struct {
	Field   string
	Message string
}

// Page builds the view model for the whole document.
func (r *Renderer) Page(s page.State) Page {
	return Page{
		Title:         r.site.Profile.Name,
		Profile:       r.site.Profile,
		PhoneHref:     phoneHref(r.site.Profile.Phone),
		Headline:      content.Headline,
		Tagline:       content.Tagline,
		Intro:         content.Intro,
		Specialties:   content.Specialties,
		About:         r.site.About,
		Skills:        content.Skills,
		Header:        r.Header(s),
		Cards:         r.Cards(s),
		Form:          r.ContactForm(s),
		Stars:         Stars(starCount),
		Year:          r.year,
		FooterNote:    content.FooterNote,
		FooterTagline: content.FooterTagline,
	}
}

// phoneHref builds a tel: link. html/template only trusts http, https and
// mailto URLs, so the scheme is asserted here from digits we control.
func phoneHref(phone string) template.URL {
	digits := strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return template.URL("tel:" + digits)
}

// Header builds the navigation bar, highlighting the active section.
func (r *Renderer) Header(s page.State) Header {
	title := cases.Title(language.English)
	nav := make([]NavItem, 0, len(page.Sections))
	for _, sec := range page.Sections {
		nav = append(nav, NavItem{
			ID:     string(sec),
			Label:  title.String(string(sec)),
			Active: s.Active == sec,
		})
	}
	return Header{
		Owner:    r.site.Profile.Name,
		Resume:   r.site.Profile.Resume,
		Nav:      nav,
		MenuOpen: s.MenuOpen,
	}
}

// Cards builds every project card in catalog order.
func (r *Renderer) Cards(s page.State) []Card {
	projects := r.site.Catalog.Projects()
	cards := make([]Card, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, r.Card(s, p))
	}
	return cards
}

// Card builds one project card.
func (r *Renderer) Card(s page.State, p catalog.Project) Card {
	return Card{
		Project:  p,
		Broken:   s.ImageBroken(p.ID),
		Glyph:    content.FallbackGlyph,
		ShowCode: p.HasCode(),
		ShowDemo: p.HasDemo(),
	}
}

var inputSpecs = map[contact.Field]struct{ label, kind, placeholder string }{
	contact.FieldName:    {"Name", "text", "Your Name"},
	contact.FieldEmail:   {"Email", "email", "your.email@example.com"},
	contact.FieldSubject: {"Subject", "text", "Subject"},
	contact.FieldMessage: {"Message", "textarea", "Your message..."},
}

// ContactForm builds the contact panel.
func (r *Renderer) ContactForm(s page.State) ContactForm {
	f := s.Form
	inputs := make([]Input, 0, len(contact.FormFields))
	for _, field := range contact.FormFields {
		spec := inputSpecs[field]
		inputs = append(inputs, Input{
			Name:        string(field),
			Label:       spec.label,
			Type:        spec.kind,
			Placeholder: spec.placeholder,
			Value:       f.Fields.Get(field),
			Error:       r.FieldError(s, field),
		})
	}
	form := ContactForm{
		Inputs:        inputs,
		Submitting:    f.Status == contact.Submitting,
		Submitted:     f.Status == contact.Submitted,
		SuccessBanner: content.SuccessBanner,
	}
	if f.Status == contact.Failed {
		form.Failure = f.Failure
	}
	return form
}

// FieldError builds the message slot for one input.
func (r *Renderer) FieldError(s page.State, field contact.Field) FieldError {
	return FieldError{Field: string(field), Message: s.Form.Errors[field]}
}
