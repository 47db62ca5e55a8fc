package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	"github.com/fixflowhq/fixflow-backend/internal/shops"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
)

type updateShopRequest struct {
	ShopName  *string `json:"shop_name,omitempty" validate:"omitempty,min=1"`
	OwnerName *string `json:"owner_name,omitempty" validate:"omitempty,min=1"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7"`
	Category  *string `json:"category,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type setPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

type verifyPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

type updateSubscriptionRequest struct {
	Status string     `json:"status" validate:"required"`
	EndsAt *time.Time `json:"ends_at,omitempty"`
}

// ShopMe returns the caller's own shop profile.
func ShopMe(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ShopMeUpdate adjusts the caller's shop profile fields.
func ShopMeUpdate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShopRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProfile(r.Context(), shopID, shops.UpdateShopInput{
			ShopName:  body.ShopName,
			OwnerName: body.OwnerName,
			Phone:     body.Phone,
			Category:  body.Category,
			Address:   body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// PinSet stores the revenue-gate PIN for the caller's shop.
func PinSet(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setPinRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetAccessPin(r.Context(), shopID, body.Pin); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// PinVerify checks the revenue-gate PIN and reports a boolean. A wrong PIN is
// a normal false result, not an error, so the response never reveals whether
// a PIN exists.
func PinVerify(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body verifyPinRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ok, err := svc.VerifyAccessPin(r.Context(), shopID, body.Pin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"valid": ok})
	}
}

// AdminShopsList pages through all tenant shops.
func AdminShopsList(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"shops": rows, "next_cursor": next})
	}
}

// AdminShopSubscription flips a shop's subscription status and end date.
func AdminShopSubscription(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shopID, err := uuid.Parse(chi.URLParam(r, "shopId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop id"))
			return
		}

		var body updateSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSubscription(r.Context(), shopID, shops.UpdateSubscriptionInput{
			Status: enums.SubscriptionStatus(body.Status),
			EndsAt: body.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
