package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/portal/internal/config"
	"github.com/campushq/portal/internal/queries"
	"github.com/campushq/portal/internal/session"
	"github.com/campushq/portal/internal/ui"
	"github.com/campushq/portal/internal/upstream"
)

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	jar      *cookiejar.Jar
	sessions *session.Manager
}

func newTestEnv(t *testing.T, upstreamHandler http.Handler) *testEnv {
	t.Helper()

	api := httptest.NewServer(upstreamHandler)
	t.Cleanup(api.Close)

	cfg := &config.Config{
		ListenAddr: ":0",
		BaseURL:    "http://localhost",
		Env:        "test",
	}
	cfg.Upstream.URL = api.URL
	cfg.Upstream.Timeout = 5 * time.Second
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Cache.TTL = time.Minute

	client := upstream.New(cfg.Upstream.URL, cfg.Upstream.Timeout)
	cache := queries.New(cfg.Cache.TTL)
	sessions := session.NewManager(cfg)
	resolver := session.NewResolver(client, cache)
	gate := session.NewGate(sessions, resolver)
	uiHandler := ui.NewHandler(cfg, client, cache, sessions, resolver)

	srv := httptest.NewServer(NewRouter(cfg, zap.NewNop(), client, gate, uiHandler))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}

	return &testEnv{
		server:   srv,
		client:   &http.Client{Jar: jar},
		jar:      jar,
		sessions: sessions,
	}
}

// authenticate plants a session cookie holding the given token, the state a
// browser is in after a successful login.
func (e *testEnv) authenticate(t *testing.T, token string) {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := e.sessions.Issue(rec, token); err != nil {
		t.Fatalf("issuing session cookie: %v", err)
	}

	base, _ := url.Parse(e.server.URL)
	e.jar.SetCookies(base, rec.Result().Cookies())
}

// csrfToken fetches any page so the middleware issues the token cookie, then
// reads it back from the jar.
func (e *testEnv) csrfToken(t *testing.T, path string) string {
	t.Helper()

	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	base, _ := url.Parse(e.server.URL)
	for _, c := range e.jar.Cookies(base) {
		if c.Name == "portal_csrf" {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()

	resp, err := e.client.PostForm(e.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(body)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	var identityAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/authenticate", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"T1"}`)
	})
	mux.HandleFunc("GET /user/details", func(w http.ResponseWriter, r *http.Request) {
		identityAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":7,"email":"jan@example.edu","firstName":"Jan","lastName":"Kowalski"}`)
	})
	mux.HandleFunc("GET /round/all", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	env := newTestEnv(t, mux)
	token := env.csrfToken(t, "/login")

	resp := env.postForm(t, "/login", url.Values{
		"email":    {"jan@example.edu"},
		"password": {"sekret"},
		"_csrf":    {token},
	})
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("final status = %d, want 200", resp.StatusCode)
	}
	if got := identityAuth.Load(); got != "Bearer T1" {
		t.Errorf("identity fetch Authorization = %v, want Bearer T1", got)
	}
	if !strings.Contains(body, "Jan Kowalski") {
		t.Error("rendered page is missing the resolved user name")
	}
}

func TestLoginFailureRendersFixedMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/authenticate", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
	})

	env := newTestEnv(t, mux)
	token := env.csrfToken(t, "/login")

	resp := env.postForm(t, "/login", url.Values{
		"email":    {"jan@example.edu"},
		"password": {"zle-haslo"},
		"_csrf":    {token},
	})
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(body, "Nieprawidłowe dane logowania") {
		t.Error("response is missing the fixed login failure message")
	}
}

func TestConflictedReservationCannotBeAccepted(t *testing.T) {
	var acceptCalled atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/details", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":7,"email":"jan@example.edu","firstName":"Jan","lastName":"Kowalski"}`)
	})
	mux.HandleFunc("GET /application/5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 5,
			"applicationStatus": {"id": 1, "name": "PENDING"},
			"event": {"id": 2, "name": "Kolokwium"},
			"user": {"firstName": "Anna", "lastName": "Nowak"},
			"date": 1700006400000,
			"startTime": "10:00",
			"endTime": "12:00",
			"participants": 30,
			"building": {"id": 1, "number": "B-4"},
			"room": {"id": 9, "number": "102"},
			"hasConflict": true
		}`)
	})
	mux.HandleFunc("PUT /application/accept/5", func(w http.ResponseWriter, r *http.Request) {
		acceptCalled.Store(true)
	})

	env := newTestEnv(t, mux)
	env.authenticate(t, "T1")
	token := env.csrfToken(t, "/reservation-list/5")

	resp, err := env.client.Get(env.server.URL + "/reservation-list/5")
	if err != nil {
		t.Fatalf("GET detail page: %v", err)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "/reservation-list/5/accept") {
		t.Error("detail page offers the accept action for a conflicting reservation")
	}

	resp = env.postForm(t, "/reservation-list/5/accept", url.Values{"_csrf": {token}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("forced accept status = %d, want 403", resp.StatusCode)
	}
	if acceptCalled.Load() {
		t.Error("accept request reached the upstream despite the conflict")
	}
}

func TestRejectInvalidatesReservationList(t *testing.T) {
	var (
		listCalls    atomic.Int32
		rejectCalled atomic.Bool
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/details", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":7,"email":"jan@example.edu","firstName":"Jan","lastName":"Kowalski"}`)
	})
	mux.HandleFunc("GET /application/all", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		fmt.Fprint(w, `[{
			"id": 42,
			"applicationStatus": {"id": 1, "name": "PENDING"},
			"event": {"id": 2, "name": "Egzamin"},
			"user": {"firstName": "Anna", "lastName": "Nowak"},
			"date": 1700006400000,
			"startTime": "08:00",
			"endTime": "10:00",
			"participants": 90,
			"building": {"id": 1, "number": "B-4"},
			"room": {"id": 9, "number": "102"}
		}]`)
	})
	mux.HandleFunc("GET /application/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 42,
			"applicationStatus": {"id": 3, "name": "REJECTED"},
			"event": {"id": 2, "name": "Egzamin"},
			"user": {"firstName": "Anna", "lastName": "Nowak"},
			"date": 1700006400000,
			"startTime": "08:00",
			"endTime": "10:00",
			"participants": 90,
			"building": {"id": 1, "number": "B-4"},
			"room": {"id": 9, "number": "102"}
		}`)
	})
	mux.HandleFunc("PUT /application/reject/42", func(w http.ResponseWriter, r *http.Request) {
		rejectCalled.Store(true)
	})

	env := newTestEnv(t, mux)
	env.authenticate(t, "T1")
	token := env.csrfToken(t, "/reservation-list")

	if got := listCalls.Load(); got != 1 {
		t.Fatalf("list fetches after first render = %d, want 1", got)
	}

	// A second render inside the freshness window must not refetch.
	resp, err := env.client.Get(env.server.URL + "/reservation-list")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	readBody(t, resp)
	if got := listCalls.Load(); got != 1 {
		t.Fatalf("list fetches after cached render = %d, want 1", got)
	}

	resp = env.postForm(t, "/reservation-list/42/reject", url.Values{"_csrf": {token}})
	body := readBody(t, resp)
	if !rejectCalled.Load() {
		t.Fatal("reject request never reached the upstream")
	}
	if !strings.Contains(body, "została odrzucona") {
		t.Error("reject response is missing the completed alert")
	}

	resp, err = env.client.Get(env.server.URL + "/reservation-list")
	if err != nil {
		t.Fatalf("GET list after reject: %v", err)
	}
	readBody(t, resp)
	if got := listCalls.Load(); got != 2 {
		t.Errorf("list fetches after reject = %d, want 2 (invalidation must force a refetch)", got)
	}
}

func TestAnonymousVisitorIsRedirectedToLogin(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	env.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := env.client.Get(env.server.URL + "/enrollment")
	if err != nil {
		t.Fatalf("GET /enrollment: %v", err)
	}
	readBody(t, resp)

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}
