package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/Bahjat/page-palette/internal/platform/requestid"
)

// CORS lets the browser UI on the given origins call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	})
}
