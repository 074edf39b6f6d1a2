// Package apitest provides an in-process stand-in for the platform REST API
// used by package tests. It mimics the server's collection/detail
// conventions: trailing-slash routes, unpaginated list arrays, token
// authentication, and the handful of custom member/finance actions.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Credentials accepted by the fake token-auth endpoint.
const (
	Username = "admin"
	Password = "passe-compose"
)

// Collection names routed by the fake server.
var collectionNames = []string{
	"members/members",
	"members/families",
	"members/skills",
	"communications/announcements",
	"events/events",
	"finance/campaigns",
	"finance/donations",
	"education/courses",
	"education/students",
	"resources/resources",
	"resources/reservations",
}

// Record is a flat JSON object as stored by the fake server.
type Record = map[string]any

type collection struct {
	items map[string]Record
	order []string
}

// Server is the fake platform API.
type Server struct {
	mu           sync.Mutex
	srv          *httptest.Server
	token        string
	user         Record
	collections  map[string]*collection
	requests     int
	lastPassword string
}

// New starts a fake platform server. Close it when done.
func New() *Server {
	s := &Server{
		token:       uuid.NewString(),
		collections: make(map[string]*collection, len(collectionNames)),
		user: Record{
			"id":                   uuid.NewString(),
			"username":             Username,
			"email":                "admin@acml.example",
			"first_name":           "Amina",
			"last_name":            "Khalil",
			"is_staff":             true,
			"must_change_password": false,
		},
	}
	for _, name := range collectionNames {
		s.collections[name] = &collection{items: make(map[string]Record)}
	}

	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Post("/token-auth/", s.handleTokenAuth)
	r.Post("/members/members/register/", s.handleRegister)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireToken)

		pr.Post("/members/members/{id}/approve/", s.handleApprove)
		pr.Post("/members/members/change_password/", s.handleChangePassword)
		pr.Get("/finance/donations/{id}/download_receipt/", s.handleDownloadReceipt)

		for _, name := range collectionNames {
			name := name
			pr.Get("/"+name+"/", s.handleList(name))
			pr.Post("/"+name+"/", s.handleCreate(name))
			pr.Get("/"+name+"/{id}/", s.handleGet(name))
			pr.Put("/"+name+"/{id}/", s.handlePut(name))
			pr.Delete("/"+name+"/{id}/", s.handleDelete(name))
		}
	})

	s.srv = httptest.NewServer(r)
	return s
}

// URL returns the base URL to hand to the gateway client.
func (s *Server) URL() string { return s.srv.URL }

// Token returns the token issued by token-auth.
func (s *Server) Token() string { return s.token }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Requests returns how many HTTP requests the server has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// LastPassword returns the password most recently submitted to
// change_password, for assertions.
func (s *Server) LastPassword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPassword
}

// Seed inserts records into a collection, assigning ids when absent, and
// returns the ids in insertion order.
func (s *Server) Seed(name string, items ...Record) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.mustCollection(name)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		rec := cloneRecord(item)
		id, _ := rec["id"].(string)
		if id == "" {
			id = uuid.NewString()
			rec["id"] = id
		}
		col.items[id] = rec
		col.order = append(col.order, id)
		ids = append(ids, id)
	}
	return ids
}

// Item returns a copy of one stored record, or nil.
func (s *Server) Item(name, id string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.mustCollection(name).items[id]
	if !ok {
		return nil
	}
	return cloneRecord(rec)
}

// Count returns the number of records in a collection.
func (s *Server) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mustCollection(name).items)
}

func (s *Server) mustCollection(name string) *collection {
	col, ok := s.collections[name]
	if !ok {
		panic(fmt.Sprintf("apitest: unknown collection %q", name))
	}
	return col
}

// --- middleware ---

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Token "+s.token {
			writeJSON(w, http.StatusUnauthorized, Record{"detail": "Invalid token."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- handlers ---

func (s *Server) handleTokenAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Record{"detail": "invalid body"})
		return
	}
	if req.Username != Username || req.Password != Password {
		writeJSON(w, http.StatusBadRequest, Record{
			"non_field_errors": []string{"Unable to log in with provided credentials."},
		})
		return
	}
	writeJSON(w, http.StatusOK, Record{"token": s.token, "user": s.user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, Record{"detail": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(rec, "password")
	rec["id"] = uuid.NewString()
	rec["status"] = "PENDING"
	rec["date_joined"] = "2026-01-15T10:00:00Z"

	col := s.mustCollection("members/members")
	id := rec["id"].(string)
	col.items[id] = rec
	col.order = append(col.order, id)

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.mustCollection("members/members")
	rec, ok := col.items[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
		return
	}
	rec["status"] = "ACTIVE"
	writeJSON(w, http.StatusOK, cloneRecord(rec))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Record{"detail": "password is required"})
		return
	}

	s.mu.Lock()
	s.lastPassword = req.Password
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	rec, ok := s.mustCollection("finance/donations").items[id]
	var status string
	if ok {
		status, _ = rec["status"].(string)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
		return
	}
	if status != "COMPLETED" {
		writeJSON(w, http.StatusBadRequest, Record{"detail": "Le reçu n'est disponible que pour les dons complétés."})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "recu_fiscal_"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%%PDF-1.4 receipt for donation %s", id)
}

func (s *Server) handleList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		col := s.mustCollection(name)
		out := make([]Record, 0, len(col.order))
		for _, id := range col.order {
			rec, ok := col.items[id]
			if !ok {
				continue
			}
			if matchesQuery(rec, r.URL.Query()) {
				out = append(out, cloneRecord(rec))
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleCreate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeJSON(w, http.StatusBadRequest, Record{"detail": "invalid body"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		delete(rec, "password")
		rec["id"] = uuid.NewString()
		applyCreateDefaults(name, rec)

		col := s.mustCollection(name)
		id := rec["id"].(string)
		col.items[id] = rec
		col.order = append(col.order, id)

		writeJSON(w, http.StatusCreated, cloneRecord(rec))
	}
}

func (s *Server) handleGet(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.mustCollection(name).items[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, cloneRecord(rec))
	}
}

func (s *Server) handlePut(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var rec Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeJSON(w, http.StatusBadRequest, Record{"detail": "invalid body"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		col := s.mustCollection(name)
		existing, ok := col.items[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}

		delete(rec, "password")
		rec["id"] = id
		// Server-owned fields survive a full-record PUT.
		for _, field := range []string{"date_joined", "created_at", "enrolled_at", "donated_at", "current_registrations", "current_amount"} {
			if v, ok := existing[field]; ok {
				if _, sent := rec[field]; !sent {
					rec[field] = v
				}
			}
		}
		col.items[id] = rec

		writeJSON(w, http.StatusOK, cloneRecord(rec))
	}
}

func (s *Server) handleDelete(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		defer s.mu.Unlock()

		col := s.mustCollection(name)
		if _, ok := col.items[id]; !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}
		delete(col.items, id)

		w.WriteHeader(http.StatusNoContent)
	}
}

// applyCreateDefaults fills the server-computed fields a freshly created
// record carries in responses.
func applyCreateDefaults(name string, rec Record) {
	switch name {
	case "members/members":
		setDefault(rec, "status", "ACTIVE")
		setDefault(rec, "date_joined", "2026-01-15T10:00:00Z")
	case "finance/donations":
		setDefault(rec, "status", "PENDING")
		setDefault(rec, "receipt_issued", false)
		setDefault(rec, "donated_at", "2026-02-01T09:30:00Z")
		setDefault(rec, "currency", "CAD")
	case "finance/campaigns":
		setDefault(rec, "current_amount", 0.0)
	case "events/events":
		setDefault(rec, "current_registrations", 0.0)
	case "resources/reservations":
		setDefault(rec, "status", "PENDING")
	case "education/students":
		setDefault(rec, "enrolled_at", "2026-01-20T08:00:00Z")
	}
}

func setDefault(rec Record, field string, value any) {
	if _, ok := rec[field]; !ok {
		rec[field] = value
	}
}

// matchesQuery applies exact-match filtering for every query parameter,
// which is all the platform's list filters the console relies on.
func matchesQuery(rec Record, query map[string][]string) bool {
	for field, values := range query {
		if len(values) == 0 {
			continue
		}
		got := fmt.Sprintf("%v", rec[field])
		if !strings.EqualFold(got, values[0]) {
			return false
		}
	}
	return true
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
