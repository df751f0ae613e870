// Package mockupstream fakes the breach providers and the Messages API for
// local runs and feature tests. Behaviour is selected by "magic" addresses.
package mockupstream

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Magic addresses understood by every provider endpoint.
const (
	EmailBreached     = "breached@example.com"
	EmailMany         = "many@example.com"
	EmailNotFound     = "notfound@example.com"
	EmailDenied       = "denied@example.com"
	EmailDeniedClean  = "denied-clean@example.com"
	EmailRateLimited  = "ratelimited@example.com"
	EmailBroken       = "broken@example.com"
	EmailUnauthorized = "unauthorized@example.com"
	EmailUnavailable  = "unavailable@example.com"
	EmailGarbage      = "garbage@example.com"
)

// APIKey is the only key the fake Messages API accepts.
const APIKey = "mock-anthropic-key"

type hibpBreach struct {
	Name        string   `json:"Name"`
	Title       string   `json:"Title"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	PwnCount    int64    `json:"PwnCount"`
	Description string   `json:"Description"`
	DataClasses []string `json:"DataClasses"`
}

var hibpBreaches = map[string][]hibpBreach{
	EmailDenied: {
		{
			Name:        "Adobe",
			Title:       "Adobe",
			Domain:      "adobe.com",
			BreachDate:  "2013-10-04",
			PwnCount:    152445165,
			Description: "In October 2013, <a href=\"https://example.com\">153 million Adobe accounts</a> were breached.",
			DataClasses: []string{"Email addresses", "Password hints", "Passwords", "Usernames"},
		},
	},
}

// Server records the requests it receives so tests can assert on fallbacks.
type Server struct {
	mu    sync.Mutex
	calls map[string]int
}

func New() *Server {
	return &Server{calls: make(map[string]int)}
}

// Calls returns how many lookups provider has served.
func (s *Server) Calls(provider string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[provider]
}

// Reset clears the call counters.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.calls)
}

func (s *Server) record(provider string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[provider]++
}

// Handler serves every fake upstream on one mux.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "mockupstream"})
	})
	r.Get("/v1/check-email/{email}", s.handleXposedOrNot)
	r.Get("/api/v3/breachedaccount/{email}", s.handleHIBP)
	r.Get("/api/v3/dataclasses", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []string{"Email addresses", "Passwords"})
	})
	r.Get("/api/public", s.handleLeakCheck)
	r.Post("/v1/messages", s.handleMessages)
	return r
}

// commonFailure answers the magic addresses that behave the same on every provider.
func commonFailure(w http.ResponseWriter, email string) bool {
	switch email {
	case EmailDenied, EmailDeniedClean:
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	case EmailNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	case EmailRateLimited:
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
	case EmailBroken:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	case EmailUnauthorized:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	case EmailUnavailable:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Service unavailable"})
	case EmailGarbage:
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	default:
		return false
	}
	return true
}

func pathEmail(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	if email, err := url.PathUnescape(raw); err == nil {
		raw = email
	}
	return strings.ToLower(raw)
}

func (s *Server) handleXposedOrNot(w http.ResponseWriter, r *http.Request) {
	s.record("xposedornot")
	email := pathEmail(r)
	if commonFailure(w, email) {
		return
	}
	switch email {
	case EmailBreached:
		writeJSON(w, http.StatusOK, map[string]any{"breaches": [][]string{{"Adobe", "LinkedIn"}}})
	case EmailMany:
		names := make([]string, 12)
		for i := range names {
			names[i] = "Breach" + string(rune('A'+i))
		}
		writeJSON(w, http.StatusOK, map[string]any{"breaches": [][]string{names}})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"Error": "Not found"})
	}
}

func (s *Server) handleHIBP(w http.ResponseWriter, r *http.Request) {
	s.record("hibp")
	email := pathEmail(r)
	if email == EmailDenied {
		writeJSON(w, http.StatusOK, hibpBreaches[email])
		return
	}
	if email == EmailDeniedClean {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if commonFailure(w, email) {
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) handleLeakCheck(w http.ResponseWriter, r *http.Request) {
	s.record("leakcheck")
	email := strings.ToLower(r.URL.Query().Get("check"))
	if commonFailure(w, email) {
		return
	}
	if email != EmailBreached {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"found":   true,
		"fields":  []string{"username", "password"},
		"sources": []map[string]string{
			{"name": "Adobe", "date": "2013-10"},
			{"source": "LinkedIn", "date": "2012-05", "line": "Scraped profile data"},
		},
	})
}

type messagesRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.record("anthropic")
	if r.Header.Get("x-api-key") != APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"type":  "error",
			"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
		})
		return
	}
	var req messagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"type":  "error",
			"error": map[string]string{"type": "invalid_request_error", "message": "messages: field required"},
		})
		return
	}

	prompt := req.Messages[0].Content
	text := "Mock review: no issues found."
	switch {
	case strings.HasPrefix(prompt, "Explain"):
		text = "Mock explanation: the code runs top to bottom."
	case !strings.HasPrefix(prompt, "Review"):
		text = "Hello from the mock model."
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      "msg_mock",
		"type":    "message",
		"role":    "assistant",
		"model":   req.Model,
		"content": []map[string]string{{"type": "text", "text": text}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
