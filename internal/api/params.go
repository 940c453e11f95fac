package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// intParam parses a numeric chi path parameter.
func intParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}

	return n, true
}

// intQuery parses an optional numeric query parameter, with a default.
func intQuery(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

// boolQuery reports a truthy query parameter ("1" or "true").
func boolQuery(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)

	return v == "1" || v == "true"
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
