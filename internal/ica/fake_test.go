package ica

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeVendor is an in-memory stand-in for the vendor's shopping list api.
type fakeVendor struct {
	lock sync.Mutex

	username string
	password string
	ticket   string

	lists []ShoppingList
	// when set, created lists are accepted but never show up in listings
	dropCreated bool
	// status overrides per "METHOD /path"
	statuses map[string]int

	calls []string
	syncs map[string][]string
}

func newFakeVendor(t *testing.T) (*fakeVendor, *httptest.Server) {
	t.Helper()
	vendor := &fakeVendor{
		username: "user",
		password: "pass",
		ticket:   "ticket-123",
		statuses: map[string]int{},
		syncs:    map[string][]string{},
	}
	server := httptest.NewServer(vendor)
	t.Cleanup(server.Close)
	return vendor, server
}

func (v *fakeVendor) Calls() []string {
	v.lock.Lock()
	defer v.lock.Unlock()
	return append([]string{}, v.calls...)
}

func (v *fakeVendor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.lock.Lock()
	defer v.lock.Unlock()

	call := r.Method + " " + r.URL.Path
	v.calls = append(v.calls, call)

	if status, ok := v.statuses[call]; ok {
		w.WriteHeader(status)
		return
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	if call == "GET /api/login" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != v.username || pass != v.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("AuthenticationTicket", v.ticket)
		return
	}

	if r.Header.Get("AuthenticationTicket") != v.ticket {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case call == "GET /api/user/offlineshoppinglists":
		json.NewEncoder(w).Encode(map[string]any{"ShoppingLists": v.lists})
	case call == "POST /api/user/offlineshoppinglists":
		var body createListRequest
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !v.dropCreated {
			v.lists = append(v.lists, ShoppingList{Title: body.Title, OfflineId: body.OfflineId})
		}
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/sync"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/user/offlineshoppinglists/"), "/sync")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		v.syncs[id] = append(v.syncs[id], string(body))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
