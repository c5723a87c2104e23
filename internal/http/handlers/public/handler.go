package public

import "github.com/promolane/internal/provider"

// Handler is the entry point for the public-facing API: promotion
// purchases, payment event intake, and display surface queries.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
