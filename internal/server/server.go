// Package server exposes the portfolio over HTTP. Full page loads return the
// whole document; every other route applies one UI event to the visitor's
// session state and answers with the HTMX fragment that changed.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prateekydv01/portfolio/internal/catalog"
	"github.com/prateekydv01/portfolio/internal/contact"
	"github.com/prateekydv01/portfolio/internal/session"
	"github.com/prateekydv01/portfolio/internal/view"
)

// Server wires the session store, renderer and contact relay to gin routes.
type Server struct {
	store     *session.Store
	views     *view.Renderer
	catalog   *catalog.Catalog
	sender    contact.Sender
	imagesDir string
	now       func() time.Time
	salt      string
}

// Options tunes a Server.
type Options struct {
	// ImagesDir is served under /images. Empty disables the route.
	ImagesDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// New builds a Server.
func New(store *session.Store, views *view.Renderer, cat *catalog.Catalog, sender contact.Sender, opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:     store,
		views:     views,
		catalog:   cat,
		sender:    sender,
		imagesDir: opts.ImagesDir,
		now:       now,
		salt:      generateSalt(),
	}
}

// Router registers every route on a new gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.views.Templates())

	r.StaticFS("/static", http.FS(view.Static()))
	if s.imagesDir != "" {
		r.Static("/images", s.imagesDir)
	}

	r.GET("/healthz", s.healthz)

	site := r.Group("/")
	site.Use(s.sessionMiddleware())

	// Home page route
	site.GET("/", s.index)

	// Navigation and view events
	ui := site.Group("/ui")
	ui.POST("/scroll", s.scroll)
	ui.POST("/navigate/:section", s.navigate)
	ui.POST("/menu", s.toggleMenu)
	ui.POST("/projects/:id/image-error", s.imageError)

	// Contact form
	site.GET("/contact/form", s.contactForm)
	site.GET("/contact/banner", s.contactBanner)
	site.POST("/contact/input", s.contactInput)
	site.POST("/contact", s.submitContact)

	return r
}
