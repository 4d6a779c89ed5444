package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekydv01/portfolio/internal/contact"
	"github.com/prateekydv01/portfolio/internal/content"
	"github.com/prateekydv01/portfolio/internal/session"
	"github.com/prateekydv01/portfolio/internal/view"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []contact.Submission
	err   error
	hook  func()
}

func (f *fakeSender) Send(_ context.Context, sub contact.Submission) error {
	f.mu.Lock()
	f.calls = append(f.calls, sub)
	hook, err := f.hook, f.err
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeSender) Calls() []contact.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contact.Submission(nil), f.calls...)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *session.Store
	sender *fakeSender
	clock  *testClock
	cookie *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	site, err := content.Load()
	require.NoError(t, err)
	views, err := view.New(site)
	require.NoError(t, err)
	store, err := session.Open(time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := &harness{
		t:      t,
		store:  store,
		sender: &fakeSender{},
		clock:  &testClock{t: time.Date(2025, 9, 25, 12, 0, 0, 0, time.UTC)},
	}
	srv := New(store, views, site.Catalog, h.sender, Options{Now: h.clock.Now})
	h.router = srv.Router()

	rec := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			h.cookie = c
		}
	}
	require.NotNil(t, h.cookie, "index should start a session")
	return h
}

func (h *harness) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("HX-Request", "true")
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"subject": {"Engines"},
		"message": {"Let's talk."},
	}
}

var activeNav = regexp.MustCompile(`data-nav="(\w+)"[^>]*aria-current="true"`)

func activeSection(t *testing.T, body string) string {
	t.Helper()
	m := activeNav.FindStringSubmatch(body)
	require.NotNil(t, m, "no active nav item in %s", body)
	return m[1]
}

func TestIndex_RendersFullPage(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="contact-form"`)
	assert.Equal(t, "home", activeSection(t, body))
	assert.Empty(t, rec.Result().Cookies(), "existing session is reused")
}

func TestSession_ExpiredCookieStartsNewSession(t *testing.T) {
	h := newHarness(t)
	h.cookie = &http.Cookie{Name: sessionCookie, Value: "gone"}

	rec := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "gone", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestScroll_UpdatesActiveSection(t *testing.T) {
	h := newHarness(t)
	layout := "home:0:800;about:800:800"

	rec := h.do(http.MethodPost, "/ui/scroll", url.Values{
		"scrollY": {"750"}, "viewportHeight": {"200"}, "layout": {layout},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "about", activeSection(t, rec.Body.String()))

	rec = h.do(http.MethodPost, "/ui/scroll", url.Values{
		"scrollY": {"1600"}, "viewportHeight": {"200"}, "layout": {layout},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code, "midpoint past every section keeps the last match")

	rec = h.do(http.MethodPost, "/ui/menu", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "about", activeSection(t, rec.Body.String()))
}

func TestScroll_BadInput(t *testing.T) {
	h := newHarness(t)
	for _, form := range []url.Values{
		{"scrollY": {"x"}, "viewportHeight": {"200"}},
		{"scrollY": {"0"}, "viewportHeight": {""}},
		{"scrollY": {"0"}, "viewportHeight": {"200"}, "layout": {"home:0"}},
	} {
		rec := h.do(http.MethodPost, "/ui/scroll", form)
		assert.Equal(t, http.StatusBadRequest, rec.Code, form.Encode())
	}
}

func TestNavigate_ClosesMenuAndRequestsScroll(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/ui/menu", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="mobile-menu"`)

	rec = h.do(http.MethodPost, "/ui/navigate/projects", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `id="mobile-menu"`)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	assert.Equal(t, "projects", trigger["portfolio:scroll"]["section"])
}

func TestNavigate_UnknownSectionStillClosesMenu(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodPost, "/ui/menu", url.Values{})

	rec := h.do(http.MethodPost, "/ui/navigate/blog", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
	assert.NotContains(t, rec.Body.String(), `id="mobile-menu"`)
}

func TestImageError_SwitchesCardToFallback(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 2; i++ {
		rec := h.do(http.MethodPost, "/ui/projects/2/image-error", url.Values{})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="project-2"`)
		assert.Contains(t, body, content.FallbackGlyph)
		assert.NotContains(t, body, "<img")
	}

	id := h.cookie.Value
	state, err := h.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, state.ImageBroken(2))
	assert.False(t, state.ImageBroken(1))

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/ui/projects/42/image-error", url.Values{}).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/ui/projects/abc/image-error", url.Values{}).Code)
}

func TestSubmit_BlankFieldsNeverReachRelay(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/contact", url.Values{"name": {"  "}, "email": {""}, "subject": {""}, "message": {"\n"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, msg := range []string{"Name is required", "Email is required", "Subject is required", "Message is required"} {
		assert.Contains(t, body, msg)
	}
	assert.Empty(t, h.sender.Calls())
}

func TestSubmit_InvalidEmail(t *testing.T) {
	h := newHarness(t)
	form := validForm()
	form.Set("email", "ada-at-example")

	rec := h.do(http.MethodPost, "/contact", form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is invalid")
	assert.NotContains(t, rec.Body.String(), "Name is required")
	assert.Empty(t, h.sender.Calls())
}

func TestInput_ClearsOnlyEditedFieldError(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodPost, "/contact", url.Values{})

	rec := h.do(http.MethodPost, "/contact/input", url.Values{"field": {"email"}, "email": {"a"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<p id="error-email" class="field-error text-red-400 text-sm mt-1" hidden></p>`, strings.TrimSpace(rec.Body.String()))

	rec = h.do(http.MethodGet, "/contact/form", nil)
	body := rec.Body.String()
	assert.NotContains(t, body, "Email is required")
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, "Subject is required")
	assert.Contains(t, body, "Message is required")
	assert.Contains(t, body, `value="a"`)

	rec = h.do(http.MethodPost, "/contact/input", url.Values{"field": {"phone"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_SuccessResetsAndBannerAutoHides(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/contact", validForm())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "banner-success")
	assert.NotContains(t, body, `value="Ada Lovelace"`)

	calls := h.sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, contact.Submission{
		Name: "Ada Lovelace", Email: "ada@example.com", Subject: "Engines", Message: "Let's talk.",
	}, calls[0])

	h.clock.Advance(4 * time.Second)
	assert.Contains(t, h.do(http.MethodGet, "/contact/banner", nil).Body.String(), "banner-success")

	h.clock.Advance(time.Second)
	rec = h.do(http.MethodGet, "/contact/banner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	banner := rec.Body.String()
	assert.Contains(t, banner, `id="contact-banner"`)
	assert.NotContains(t, banner, "banner-success")
	assert.NotContains(t, banner, "<form")
	assert.NotContains(t, h.do(http.MethodGet, "/contact/form", nil).Body.String(), "banner-success")
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	h := newHarness(t)
	h.sender.err = errors.New("relay rejected submission")

	rec := h.do(http.MethodPost, "/contact", validForm())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, contact.FailureMessage)
	assert.Contains(t, body, `value="Ada Lovelace"`)
	assert.NotContains(t, body, "banner-success")

	h.clock.Advance(time.Minute)
	assert.Contains(t, h.do(http.MethodGet, "/contact/form", nil).Body.String(), contact.FailureMessage)

	h.sender.mu.Lock()
	h.sender.err = nil
	h.sender.mu.Unlock()
	rec = h.do(http.MethodPost, "/contact", validForm())
	assert.NotContains(t, rec.Body.String(), contact.FailureMessage)
	assert.Contains(t, rec.Body.String(), "banner-success")
}

func TestSubmit_RejectsSecondSubmitWhileInFlight(t *testing.T) {
	h := newHarness(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	h.sender.hook = func() {
		close(entered)
		<-release
	}

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- h.do(http.MethodPost, "/contact", validForm())
	}()
	<-entered

	h.sender.mu.Lock()
	h.sender.hook = nil
	h.sender.mu.Unlock()

	rec := h.do(http.MethodPost, "/contact", validForm())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="idle-label">Sending...</span>`)
	assert.Contains(t, rec.Body.String(), `hx-get="/contact/form" hx-trigger="load delay:1s"`)
	assert.Len(t, h.sender.Calls(), 1)

	close(release)
	first := <-done
	assert.Contains(t, first.Body.String(), "banner-success")

	// The waiting tab's poll now sees the finished send.
	rec = h.do(http.MethodGet, "/contact/form", nil)
	assert.NotContains(t, rec.Body.String(), `hx-trigger="load delay:1s"`)
	assert.Contains(t, rec.Body.String(), "banner-success")
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string `json:"status"`
		Sessions int64  `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, int64(1), body.Sessions)
}

func TestStaticAssets(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/static/app.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio:scroll")
}

func TestHashIP_StablePerProcess(t *testing.T) {
	s := &Server{salt: "pepper"}
	a := s.hashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, s.hashIP("203.0.113.7"))
	assert.NotEqual(t, a, s.hashIP("203.0.113.8"))
}
