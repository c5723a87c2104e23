package admin

import "github.com/promolane/internal/provider"

// Handler is the entry point for the admin API: sweep triggers, listings,
// and monitoring stats.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
