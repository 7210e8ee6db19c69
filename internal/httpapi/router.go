package httpapi

import (
	"net/http"
	"sort"
	"strings"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Companies
	coh := CompaniesHandler{DB: d.DB}
	mux.HandleFunc("/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  coh.List,
		http.MethodPost: coh.Create,
	}))
	mux.HandleFunc("/companies/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    coh.GetByPath,    // /companies/{id}
		http.MethodDelete: coh.DeleteByPath, // /companies/{id}
	}))

	// Jobs
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: jh.SetStatusByPath, // /jobs/{id}/status
	}))

	// Fetch
	fh := &FetchHandler{Runner: d.Runner, Sessions: d.Sessions}
	mux.HandleFunc("/fetch/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Run,
	}))
	mux.HandleFunc("/fetch/companies/", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.RunCompanyByPath, // /fetch/companies/{id}
	}))
	mux.HandleFunc("/fetch/progress/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.ProgressByPath, // /fetch/progress/{session_id}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}

// methodMux dispatches by HTTP method and answers anything else with the
// engine's JSON error envelope plus an Allow header.
func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		allowed := make([]string, 0, len(m))
		for k := range m {
			allowed = append(allowed, k)
		}
		sort.Strings(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}
