package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// getPathID extracts a non-empty identifier from the URL path parameters.
func getPathID(r *http.Request, paramName string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, paramName))
	return id, id != ""
}
