package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prateekydv01/portfolio/internal/contact"
	"github.com/prateekydv01/portfolio/internal/page"
	"github.com/prateekydv01/portfolio/internal/session"
)

// scrollEvent is the client event asking the page to smooth-scroll to an anchor.
const scrollEvent = "portfolio:scroll"

// update applies fn to the visitor's state. The success banner's delayed
// revert is checked before every event. On failure the response is already
// written and ok is false.
func (s *Server) update(ctx context.Context, c *gin.Context, fn func(*page.State) error) (page.State, bool) {
	id := c.GetString(sessionKey)
	state, err := s.store.Update(ctx, id, func(st *page.State) error {
		st.Form.Advance(s.now())
		return fn(st)
	})
	switch {
	case err == nil:
		return state, true
	case errors.Is(err, session.ErrNotFound):
		// Swept between the middleware and here; reload to get a new one.
		c.Header("HX-Refresh", "true")
		c.AbortWithStatus(http.StatusGone)
	default:
		log.Printf("Error updating session for %s: %v", s.hashIP(c.ClientIP()), err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
	return page.State{}, false
}

func (s *Server) healthz(c *gin.Context) {
	n, err := s.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": n})
}

// A full load is a fresh mount of the page.
func (s *Server) index(c *gin.Context) {
	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		*st = page.New()
		return nil
	})
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "page", s.views.Page(state))
}

func (s *Server) scroll(c *gin.Context) {
	scrollY, err := strconv.ParseFloat(c.PostForm("scrollY"), 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	viewport, err := strconv.ParseFloat(c.PostForm("viewportHeight"), 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	layout, err := page.ParseLayout(c.PostForm("layout"))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var changed bool
	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		changed = st.Scroll(scrollY, viewport, layout)
		return nil
	})
	if !ok {
		return
	}
	if !changed {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "header", s.views.Header(state))
}

func (s *Server) navigate(c *gin.Context) {
	var (
		target page.Section
		found  bool
	)
	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		target, found = st.Navigate(c.Param("section"))
		return nil
	})
	if !ok {
		return
	}
	if found {
		trigger, err := json.Marshal(gin.H{scrollEvent: gin.H{"section": target}})
		if err == nil {
			c.Header("HX-Trigger", string(trigger))
		}
	}
	c.HTML(http.StatusOK, "header", s.views.Header(state))
}

func (s *Server) toggleMenu(c *gin.Context) {
	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		st.ToggleMenu()
		return nil
	})
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "header", s.views.Header(state))
}

func (s *Server) imageError(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	project, found := s.catalog.Lookup(id)
	if !found {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		st.ImageFailed(id)
		return nil
	})
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "project-card", s.views.Card(state, project))
}

func (s *Server) contactForm(c *gin.Context) {
	state, ok := s.update(c.Request.Context(), c, func(*page.State) error { return nil })
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "contact-form", s.views.ContactForm(state))
}

// contactBanner renders only the status banners above the inputs.
func (s *Server) contactBanner(c *gin.Context) {
	state, ok := s.update(c.Request.Context(), c, func(*page.State) error { return nil })
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "contact-banner", s.views.ContactForm(state))
}

// contactInput records one edited field and returns its (now empty) error slot.
func (s *Server) contactInput(c *gin.Context) {
	field, known := contact.ParseField(c.PostForm("field"))
	if !known {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	value := c.PostForm(string(field))

	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		return st.Form.Input(field, value)
	})
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "field-error", s.views.FieldError(state, field))
}

// Handle contact form submission with HTMX
func (s *Server) submitContact(c *gin.Context) {
	posted := contact.Fields{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	}

	var (
		sub      contact.Submission
		beginErr error
	)
	state, ok := s.update(c.Request.Context(), c, func(st *page.State) error {
		if st.Form.Status != contact.Submitting {
			st.Form.Fields = posted
		}
		sub, beginErr = st.Form.Begin(s.now())
		return nil
	})
	if !ok {
		return
	}
	if beginErr != nil {
		// Validation errors or a send already in flight: nothing goes out. An
		// in-flight form polls /contact/form until the other send finishes.
		c.HTML(http.StatusOK, "contact-form", s.views.ContactForm(state))
		return
	}

	// The send is not cancelled if the visitor navigates away.
	ctx := context.WithoutCancel(c.Request.Context())
	sendErr := s.sender.Send(ctx, sub)
	if sendErr != nil {
		log.Printf("Error relaying contact message from %s: %v", s.hashIP(c.ClientIP()), sendErr)
	} else {
		log.Printf("Contact message relayed for %s", s.hashIP(c.ClientIP()))
	}

	state, ok = s.update(ctx, c, func(st *page.State) error {
		st.Form.Complete(s.now(), sendErr)
		return nil
	})
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "contact-form", s.views.ContactForm(state))
}
