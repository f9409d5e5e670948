// Package fakeapi is an in-process device-management backend for tests. It
// answers every route the console can call and records what it received.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

// Call is one request as the backend saw it.
type Call struct {
	Route         string
	Method        string
	Path          string
	Query         string
	Vars          map[string]string
	Authorization string
	ContentType   string
	Body          string
}

type API struct {
	router *mux.Router

	mu    sync.Mutex
	calls []Call
}

func New() *API {
	a := &API{router: mux.NewRouter()}
	r := a.router

	r.HandleFunc("/api/device/legal-asset-state", a.handle("getLegalAssetStates")).Methods(http.MethodGet)
	r.HandleFunc("/api/device/{serial}/certificate/{token}", a.handle("getCertificate")).Methods(http.MethodGet)
	r.HandleFunc("/api/device/{serial}/freeze", a.handle("freeze")).Methods(http.MethodPut)
	r.HandleFunc("/api/device/{serial}/unfreeze", a.handle("unfreeze")).Methods(http.MethodPut)
	r.HandleFunc("/api/device/{serial}/send_message", a.handle("sendMessage")).Methods(http.MethodPost)
	r.HandleFunc("/api/device/{serial}/enable_lost_mode", a.handle("enableLostMode")).Methods(http.MethodPost)
	r.HandleFunc("/api/device/{serial}/asset-state/{state}", a.handle("setDeviceAssetState")).Methods(http.MethodPost)
	r.HandleFunc("/api/tags", a.handle("getTags")).Methods(http.MethodGet)
	r.HandleFunc("/api/tag/addtag/{serial}/{tag}", a.handle("addTag")).Methods(http.MethodPost)
	r.HandleFunc("/api/integration/{code}", a.handle("getIntegration")).Methods(http.MethodGet)
	r.HandleFunc("/api/software-inventory/list", a.handle("getSoftwareInventory")).Methods(http.MethodGet)
	r.HandleFunc("/api/devicestate", a.handle("getDeviceStates")).Methods(http.MethodGet)

	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Calls returns a copy of everything received so far.
func (a *API) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Call, len(a.calls))
	copy(out, a.calls)
	return out
}

func (a *API) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c := Call{
			Route:         route,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Vars:          mux.Vars(r),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(b),
		}
		a.mu.Lock()
		a.calls = append(a.calls, c)
		a.mu.Unlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(map[string]any{
			"route": route,
			"vars":  c.Vars,
		})
	}
}
