package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/LiteBots/zacharska/internal/errors"
	"github.com/LiteBots/zacharska/internal/service"
)

func (h *Handlers) ListListings(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListListings(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := h.Service.ListingByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRaw(r)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	created, err := h.Service.CreateListing(r.Context(), raw)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patch, err := decodeRaw(r)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	updated, err := h.Service.UpdateListing(r.Context(), id, patch)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteListing(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
