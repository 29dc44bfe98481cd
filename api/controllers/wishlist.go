package controllers

import (
	"net/http"
	"strconv"

	"github.com/SoiBeTiiii/datn-sub000/api/middleware"
	"github.com/SoiBeTiiii/datn-sub000/api/responses"
	"github.com/SoiBeTiiii/datn-sub000/api/validators"
	"github.com/SoiBeTiiii/datn-sub000/internal/wishlist"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
)

// WishlistList returns the authenticated user's wishlist, loading it from the
// backend when the cache is cold.
func WishlistList(cache *wishlist.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userKey := middleware.UserKeyFromContext(r.Context())
		entries := cache.EnsureLoaded(r.Context(), userKey)
		responses.WriteSuccess(w, map[string]any{
			"entries": entries,
			"state":   cache.State().String(),
		})
	}
}

// WishlistContains answers a membership check without triggering a fetch.
func WishlistContains(cache *wishlist.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userKey := middleware.UserKeyFromContext(r.Context())
		slug := r.URL.Query().Get("slug")

		var id *int64
		if rawID := r.URL.Query().Get("id"); rawID != "" {
			parsed, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id"))
				return
			}
			id = &parsed
		}
		if slug == "" && id == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug or id is required"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{
			"wishlisted": cache.Has(userKey, slug, id),
		})
	}
}

type wishlistAddRequest struct {
	Slug      string `json:"slug" validate:"required"`
	ID        *int64 `json:"id"`
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     *int64 `json:"price"`
}

// WishlistAdd records an entry locally, then syncs with the backend.
func WishlistAdd(cache *wishlist.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload wishlistAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userKey := middleware.UserKeyFromContext(r.Context())
		entry := wishlist.Entry{
			Slug:      payload.Slug,
			ID:        payload.ID,
			ProductID: payload.ProductID,
			Name:      payload.Name,
			Image:     payload.Image,
			Price:     payload.Price,
		}
		if err := cache.Add(r.Context(), userKey, entry); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"wishlisted": true})
	}
}

// WishlistRemove drops an entry locally, then syncs with the backend.
func WishlistRemove(cache *wishlist.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		slug := r.URL.Query().Get("slug")
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		var id *int64
		if rawID := r.URL.Query().Get("id"); rawID != "" {
			parsed, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id"))
				return
			}
			id = &parsed
		}

		userKey := middleware.UserKeyFromContext(r.Context())
		if err := cache.Remove(r.Context(), userKey, slug, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"wishlisted": false})
	}
}
