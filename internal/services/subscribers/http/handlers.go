// Package http provides http transport for subscribers
package http

import (
	stdhttp "net/http"

	"bandwatch/internal/modkit/httpkit"
	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/services/subscribers/domain"
)

// Register mounts the subscriber routes
func Register(r httpkit.Router, svc domain.AdminPort) {
	h := &handlers{svc: svc}
	httpkit.PostJSON[domain.CreateInput](r, "/subscribers", h.create)
	httpkit.Delete(r, "/subscribers/{email}", h.remove)
	httpkit.Get(r, "/genres", h.genres)
}

type handlers struct{ svc domain.AdminPort }

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	sub, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(sub), nil
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	email := httpkit.Param(r, "email")
	if email == "" {
		return nil, perr.InvalidArgf("email path segment is required")
	}
	if err := h.svc.Delete(r.Context(), email); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) genres(r *stdhttp.Request) (any, error) {
	return h.svc.Genres(r.Context())
}
