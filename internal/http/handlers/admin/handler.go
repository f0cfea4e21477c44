package admin

import "github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/provider"

// Handler serves the admin API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
