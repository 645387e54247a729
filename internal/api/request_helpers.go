package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingodeck/internal/domain"
)

// getFilter reads the optional level and category query parameters.
// Missing values are returned as zero so the settings can fill them in.
func getFilter(r *http.Request) (domain.Level, domain.Category, error) {
	q := r.URL.Query()

	var level domain.Level
	if raw := strings.TrimSpace(q.Get("level")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, "", domain.ErrInvalidLevel
		}
		level = domain.Level(n)
		if !level.Valid() {
			return 0, "", domain.ErrInvalidLevel
		}
	}

	return level, domain.Category(strings.TrimSpace(q.Get("category"))), nil
}

// getPathCardID extracts the {id} path parameter.
func getPathCardID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", errors.New("card id is required")
	}
	return id, nil
}
