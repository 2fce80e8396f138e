package server

import "net/http"

func (d *dashboard) uiHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	case "/ui/trag.js":
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(uiSharedJS))
	default:
		http.NotFound(w, r)
	}
}

// DashboardIndexHTML is the dashboard page, also embedded into static
// exports.
func DashboardIndexHTML() string {
	return indexHTML
}

// DashboardSharedJS is the dashboard behavior script served at /ui/trag.js
// and written to ui/trag.js in static exports.
func DashboardSharedJS() string {
	return uiSharedJS
}
