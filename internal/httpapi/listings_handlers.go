package httpapi

import (
	"context"
	"net/http"

	"internfinder-engine/internal/domain"
)

type ListingsHandler struct {
	Load func(ctx context.Context) ([]domain.Listing, error)
}

// List returns every stored listing, newest first.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Load(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	// Stored order is append order; reverse so the newest come first.
	out := make([]domain.Listing, 0, len(listings))
	for i := len(listings) - 1; i >= 0; i-- {
		out = append(out, listings[i])
	}
	writeJSON(w, map[string]any{
		"count":    len(out),
		"listings": out,
	})
}
