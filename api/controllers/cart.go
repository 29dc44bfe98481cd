package controllers

import (
	"net/http"

	"github.com/SoiBeTiiii/datn-sub000/api/middleware"
	"github.com/SoiBeTiiii/datn-sub000/api/responses"
	"github.com/SoiBeTiiii/datn-sub000/api/validators"
	cartsvc "github.com/SoiBeTiiii/datn-sub000/internal/cart"
	"github.com/SoiBeTiiii/datn-sub000/internal/session"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
)

type cartResponse struct {
	SessionID string             `json:"session_id"`
	Items     []cartsvc.LineItem `json:"items"`
	Totals    cartsvc.Totals     `json:"totals"`
}

func newCartResponse(store *cartsvc.Store) cartResponse {
	items := store.Items()
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return cartResponse{
		SessionID: store.SessionID(),
		Items:     items,
		Totals:    store.Totals(),
	}
}

func sessionStore(r *http.Request, registry *session.Registry) (*cartsvc.Store, error) {
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id missing")
	}
	return registry.Store(r.Context(), sessionID)
}

// CartFetch returns the current cart with gifts and totals.
func CartFetch(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type optionPayload struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type addItemRequest struct {
	ProductID     int64           `json:"product_id" validate:"required"`
	VariantID     int64           `json:"variant_id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Image         string          `json:"image"`
	Price         int64           `json:"price" validate:"min=0"`
	OriginalPrice int64           `json:"original_price" validate:"min=0"`
	Quantity      int             `json:"quantity" validate:"min=1"`
	Options       []optionPayload `json:"options" validate:"dive"`
}

func (p addItemRequest) toLineItem() cartsvc.LineItem {
	options := make([]cartsvc.Option, len(p.Options))
	for i, opt := range p.Options {
		options[i] = cartsvc.Option{Name: opt.Name, Value: opt.Value}
	}
	return cartsvc.LineItem{
		ProductID:     p.ProductID,
		VariantID:     p.VariantID,
		Name:          p.Name,
		Image:         p.Image,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      p.Quantity,
		Options:       options,
	}
}

// CartAddItem merges an item into the cart and re-derives gifts.
func CartAddItem(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(r.Context(), payload.toLineItem())
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type itemRefRequest struct {
	VariantID int64           `json:"variant_id" validate:"required"`
	Options   []optionPayload `json:"options" validate:"dive"`
}

func (p itemRefRequest) toOptions() []cartsvc.Option {
	options := make([]cartsvc.Option, len(p.Options))
	for i, opt := range p.Options {
		options[i] = cartsvc.Option{Name: opt.Name, Value: opt.Value}
	}
	return options
}

// CartRemoveItem deletes a line item.
func CartRemoveItem(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRefRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(r.Context(), payload.VariantID, payload.toOptions())
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// CartIncreaseQuantity adds one unit to a line item.
func CartIncreaseQuantity(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return adjustQuantityHandler(registry, logg, func(store *cartsvc.Store, r *http.Request, variantID int64, options []cartsvc.Option) {
		store.IncreaseQuantity(r.Context(), variantID, options)
	})
}

// CartDecreaseQuantity removes one unit from a line item, flooring at one.
func CartDecreaseQuantity(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return adjustQuantityHandler(registry, logg, func(store *cartsvc.Store, r *http.Request, variantID int64, options []cartsvc.Option) {
		store.DecreaseQuantity(r.Context(), variantID, options)
	})
}

func adjustQuantityHandler(registry *session.Registry, logg *logger.Logger, adjust func(*cartsvc.Store, *http.Request, int64, []cartsvc.Option)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRefRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjust(store, r, payload.VariantID, payload.toOptions())
		responses.WriteSuccess(w, newCartResponse(store))
	}
}
