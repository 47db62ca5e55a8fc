package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	"github.com/fixflowhq/fixflow-backend/internal/warranties"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
)

type issueWarrantyRequest struct {
	CustomerName    string       `json:"customer_name" validate:"required,min=1"`
	CustomerPhone   string       `json:"customer_phone" validate:"required,min=7"`
	CustomerAddress *string      `json:"customer_address,omitempty"`
	DeviceModel     string       `json:"device_model" validate:"required,min=1"`
	RepairType      string       `json:"repair_type" validate:"required,min=1"`
	RepairCost      types.Amount `json:"repair_cost"`
	DurationDays    int          `json:"duration_days" validate:"required,min=1"`
	PrivateNote     *string      `json:"private_note,omitempty"`
	IssuedAt        *time.Time   `json:"issued_at,omitempty"`
}

type updateWarrantyRequest struct {
	CustomerName    *string `json:"customer_name,omitempty" validate:"omitempty,min=1"`
	CustomerPhone   *string `json:"customer_phone,omitempty" validate:"omitempty,min=7"`
	CustomerAddress *string `json:"customer_address,omitempty"`
	DeviceModel     *string `json:"device_model,omitempty" validate:"omitempty,min=1"`
	RepairType      *string `json:"repair_type,omitempty" validate:"omitempty,min=1"`
	PrivateNote     *string `json:"private_note,omitempty"`
}

func warrantyIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "warrantyId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid warranty id")
	}
	return id, nil
}

// WarrantiesList returns the shop's certificates newest-first with derived status.
func WarrantiesList(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), shopID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"warranties": rows, "next_cursor": next})
	}
}

// WarrantiesIssue creates a new certificate with a generated short code.
func WarrantiesIssue(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body issueWarrantyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Issue(r.Context(), shopID, warranties.IssueWarrantyInput{
			CustomerName:    body.CustomerName,
			CustomerPhone:   body.CustomerPhone,
			CustomerAddress: body.CustomerAddress,
			DeviceModel:     body.DeviceModel,
			RepairType:      body.RepairType,
			RepairCost:      body.RepairCost,
			DurationDays:    body.DurationDays,
			PrivateNote:     body.PrivateNote,
			IssuedAt:        body.IssuedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// WarrantiesGet loads a single certificate scoped to the caller's shop.
func WarrantiesGet(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warrantyID, err := warrantyIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), shopID, warrantyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// WarrantiesUpdate adjusts the mutable certificate fields.
func WarrantiesUpdate(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warrantyID, err := warrantyIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateWarrantyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), shopID, warrantyID, warranties.UpdateWarrantyInput{
			CustomerName:    body.CustomerName,
			CustomerPhone:   body.CustomerPhone,
			CustomerAddress: body.CustomerAddress,
			DeviceModel:     body.DeviceModel,
			RepairType:      body.RepairType,
			PrivateNote:     body.PrivateNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// WarrantiesDelete removes a certificate.
func WarrantiesDelete(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warrantyID, err := warrantyIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), shopID, warrantyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// PublicVerify resolves a warranty by its public short code. No auth required;
// the projection never includes the private note.
func PublicVerify(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warranty service unavailable"))
			return
		}

		dto, err := svc.Resolve(r.Context(), chi.URLParam(r, "shortCode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
