package web

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio/internal/contact"
	"portfolio/internal/content"
	"portfolio/internal/nav"

	"go.uber.org/goleak"
)

type captureSender struct {
	mu  sync.Mutex
	got []contact.Payload
	err error
}

func (c *captureSender) Send(ctx context.Context, ep contact.Endpoint, p contact.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, p)
	return c.err
}

func (c *captureSender) sent() []contact.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]contact.Payload(nil), c.got...)
}

// manualClock hands the reset callback to the test instead of scheduling it.
type manualClock struct {
	scheduled chan func()
}

func newManualClock() *manualClock { return &manualClock{scheduled: make(chan func(), 4)} }

func (c *manualClock) Now() time.Time { return time.Now() }

func (c *manualClock) AfterFunc(d time.Duration, f func()) contact.Timer {
	c.scheduled <- f
	return stopFunc(func() bool { return true })
}

type stopFunc func() bool

func (f stopFunc) Stop() bool { return f() }

func newTestServer(t *testing.T, cfg Config, sender contact.Sender) *Server {
	t.Helper()
	srv, err := New(cfg, content.Default(), sender, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{}, &captureSender{})
	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestStaticScript_ClearsFieldErrorsOnEdit(t *testing.T) {
	srv := newTestServer(t, Config{}, &captureSender{})
	rec := do(t, srv.Handler(), http.MethodGet, "/static/app.js", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	js := rec.Body.String()
	for _, want := range []string{"data-error-for", "data-notice", "IntersectionObserver"} {
		if !strings.Contains(js, want) {
			t.Fatalf("app.js missing %q", want)
		}
	}
}

func TestHome_RendersSectionsNavAndForm(t *testing.T) {
	srv := newTestServer(t, Config{}, &captureSender{})
	rec := do(t, srv.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	for _, id := range content.Default().SectionIDs() {
		if !strings.Contains(body, `<section id="`+id+`"`) {
			t.Fatalf("missing section %q", id)
		}
	}
	for _, want := range []string{
		`data-nav-link="home" class="active"`,
		`<h3 id="projects-shelfie">Shelfie</h3>`,
		`id="contact-form"`,
		`Send Message`,
		`data-nav-thresholds="0.1,0.3"`,
		`data-nav-margin="-80px 0px -80px 0px"`,
		`data-nav-grace-ms="500"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(body, "data-theme=") {
		t.Fatalf("auto theme should leave data-theme unset")
	}
}

func TestHome_ThemeCookieOverridesConfig(t *testing.T) {
	srv := newTestServer(t, Config{Theme: "light"}, &captureSender{})

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")
	if !strings.Contains(rec.Body.String(), `data-theme="light"`) {
		t.Fatalf("expected configured light theme")
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/", "", &http.Cookie{Name: themeCookie, Value: "dark"})
	if !strings.Contains(rec.Body.String(), `data-theme="dark"`) {
		t.Fatalf("expected cookie dark theme")
	}
}

func TestSectionsAPI_ReportsNavItems(t *testing.T) {
	cfg := Config{Nav: func(ids []string) (nav.Config, error) {
		c := nav.DefaultConfig("home", "contact")
		c.Default = "contact"
		return c, nil
	}}
	srv := newTestServer(t, cfg, &captureSender{})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/sections", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []sectionDTO
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d sections, want 6", len(got))
	}
	for _, s := range got {
		wantNav := s.ID == "home" || s.ID == "contact"
		if s.Nav != wantNav {
			t.Errorf("%s: nav = %v, want %v", s.ID, s.Nav, wantNav)
		}
		if s.Default != (s.ID == "contact") {
			t.Errorf("%s: default = %v", s.ID, s.Default)
		}
	}
}

func TestNew_RejectsNavItemsMissingFromSite(t *testing.T) {
	cfg := Config{Nav: func(ids []string) (nav.Config, error) {
		return nav.DefaultConfig("home", "blog"), nil
	}}
	_, err := New(cfg, content.Default(), &captureSender{}, nil)
	var invalid *nav.InvalidSectionError
	if !errors.As(err, &invalid) || invalid.ID != "blog" {
		t.Fatalf("err = %v, want InvalidSectionError for blog", err)
	}
}

func TestSetSite_KeepsPreviousOnMismatch(t *testing.T) {
	cfg := Config{Nav: func(ids []string) (nav.Config, error) {
		return nav.DefaultConfig("home", "contact"), nil
	}}
	srv := newTestServer(t, cfg, &captureSender{})

	bad, err := content.Parse([]byte("sections:\n  - id: home\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := srv.SetSite(bad); err == nil {
		t.Fatalf("expected mismatch error")
	}
	site, _ := srv.snapshot()
	if len(site.Sections) != 6 {
		t.Fatalf("site replaced despite error")
	}
}

func TestResume_RedirectsWhenConfigured(t *testing.T) {
	srv := newTestServer(t, Config{}, &captureSender{})
	if rec := do(t, srv.Handler(), http.MethodGet, "/resume", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	srv = newTestServer(t, Config{ResumeURL: "https://example.com/cv.pdf"}, &captureSender{})
	rec := do(t, srv.Handler(), http.MethodGet, "/resume", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://example.com/cv.pdf" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestContactJSON(t *testing.T) {
	const valid = `{"name":"Ada","email":"ada@example.com","message":"Hello"}`

	t.Run("success", func(t *testing.T) {
		sender := &captureSender{}
		srv := newTestServer(t, Config{}, sender)
		rec := do(t, srv.Handler(), http.MethodPost, "/api/contact", valid)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		got := sender.sent()
		if len(got) != 1 || got[0].FromEmail != "ada@example.com" || got[0].Message != "Hello" {
			t.Fatalf("sent = %+v", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		sender := &captureSender{}
		srv := newTestServer(t, Config{}, sender)
		rec := do(t, srv.Handler(), http.MethodPost, "/api/contact", `{"name":"Ada","email":"nope","message":""}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var resp contactResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Errors[contact.FieldEmail] != contact.MsgEmailInvalid || resp.Errors[contact.FieldMessage] != contact.MsgMessageRequired {
			t.Fatalf("errors = %+v", resp.Errors)
		}
		if _, ok := resp.Errors[contact.FieldName]; ok {
			t.Fatalf("name should be valid")
		}
		if len(sender.sent()) != 0 {
			t.Fatalf("invalid form must not send")
		}
	})

	t.Run("failure hides cause", func(t *testing.T) {
		sender := &captureSender{err: errors.New("smtp exploded")}
		srv := newTestServer(t, Config{}, sender)
		rec := do(t, srv.Handler(), http.MethodPost, "/api/contact", valid)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, contact.NoticeFailure) || strings.Contains(body, "smtp") {
			t.Fatalf("body = %q", body)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		srv := newTestServer(t, Config{}, &captureSender{})
		if rec := do(t, srv.Handler(), http.MethodPost, "/api/contact", "{"); rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestContactJSON_CORSAllowAll(t *testing.T) {
	srv := newTestServer(t, Config{AllowAllOrigins: true}, &captureSender{})
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q, want *", got)
	}
}

func TestContactStream_InvalidPatchesErrors(t *testing.T) {
	sender := &captureSender{}
	srv := newTestServer(t, Config{}, sender)
	rec := do(t, srv.Handler(), http.MethodPost, "/contact", `{"name":"","email":"a@b.co","message":"hi"}`)
	body := rec.Body.String()
	if !strings.Contains(body, "datastar-patch-elements") || !strings.Contains(body, contact.MsgNameRequired) {
		t.Fatalf("body = %q", body)
	}
	// The page script drops an error by its field name once the user edits it.
	if !strings.Contains(body, `data-error-for="name"`) || strings.Contains(body, `data-error-for="email"`) {
		t.Fatalf("field errors not keyed by field: %q", body)
	}
	if strings.Contains(body, "Sending...") {
		t.Fatalf("invalid form must not enter Submitting")
	}
	if len(sender.sent()) != 0 {
		t.Fatalf("invalid form must not send")
	}
}

func TestContactStream_FailureKeepsInput(t *testing.T) {
	sender := &captureSender{err: errors.New("relay down")}
	srv := newTestServer(t, Config{}, sender)
	rec := do(t, srv.Handler(), http.MethodPost, "/contact", `{"name":"Ada","email":"ada@example.com","message":"Hello"}`)
	body := rec.Body.String()
	for _, want := range []string{"Sending...", contact.NoticeFailure, `value="Ada"`, `data-status="failed"`, `data-notice`} {
		if !strings.Contains(body, want) {
			t.Fatalf("stream missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "datastar-patch-signals") {
		t.Fatalf("failure must not clear the bound inputs")
	}
}

func TestContactStream_SuccessThenReset(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := newManualClock()
	sender := &captureSender{}
	srv := newTestServer(t, Config{Contact: contact.Options{Clock: clock, ResetDelay: time.Hour}}, sender)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tr := &http.Transport{DisableKeepAlives: true}
	defer tr.CloseIdleConnections()
	client := &http.Client{Transport: tr}

	resp, err := client.Post(ts.URL+"/contact", "application/json",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","message":"Hello"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var lines []string
	fired := false
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		lines = append(lines, line)
		if !fired && strings.Contains(line, contact.NoticeSuccess) {
			select {
			case f := <-clock.scheduled:
				f()
			case <-time.After(2 * time.Second):
				t.Fatalf("reset timer was never scheduled")
			}
			fired = true
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if !fired {
		t.Fatalf("never saw the success notice:\n%s", strings.Join(lines, "\n"))
	}

	all := strings.Join(lines, "\n")
	for _, want := range []string{`data-status="submitting"`, `data-status="success"`, `data-status="idle"`, "datastar-patch-signals"} {
		if !strings.Contains(all, want) {
			t.Fatalf("stream missing %q:\n%s", want, all)
		}
	}
	last := strings.LastIndex(all, `data-status="`)
	if !strings.HasPrefix(all[last:], `data-status="idle"`) {
		t.Fatalf("stream should end on the idle form")
	}
	if got := sender.sent(); len(got) != 1 {
		t.Fatalf("sent %d messages, want 1", len(got))
	}
}
