package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	"github.com/fixflowhq/fixflow-backend/internal/jobs"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
)

type createJobRequest struct {
	CustomerName     string                  `json:"customer_name" validate:"required,min=1"`
	CustomerPhone    string                  `json:"customer_phone" validate:"required,min=7"`
	CustomerAddress  *string                 `json:"customer_address,omitempty"`
	DeviceCategory   string                  `json:"device_category" validate:"required"`
	DeviceModel      string                  `json:"device_model" validate:"required,min=1"`
	Problem          string                  `json:"problem" validate:"required,min=1"`
	Accessories      *string                 `json:"accessories,omitempty"`
	TechnicalDetails *types.TechnicalDetails `json:"technical_details,omitempty"`
	EstimatedCost    types.Amount            `json:"estimated_cost"`
	AdvanceAmount    types.Amount            `json:"advance_amount"`
	ReceivedAt       *time.Time              `json:"received_at,omitempty"`
	ExpectedAt       *time.Time              `json:"expected_at,omitempty"`
}

type updateJobRequest struct {
	CustomerName     *string                 `json:"customer_name,omitempty" validate:"omitempty,min=1"`
	CustomerPhone    *string                 `json:"customer_phone,omitempty" validate:"omitempty,min=7"`
	CustomerAddress  *string                 `json:"customer_address,omitempty"`
	DeviceModel      *string                 `json:"device_model,omitempty" validate:"omitempty,min=1"`
	Problem          *string                 `json:"problem,omitempty" validate:"omitempty,min=1"`
	Accessories      *string                 `json:"accessories,omitempty"`
	TechnicalDetails *types.TechnicalDetails `json:"technical_details,omitempty"`
	EstimatedCost    *types.Amount           `json:"estimated_cost,omitempty"`
	AdvanceAmount    *types.Amount           `json:"advance_amount,omitempty"`
	ExpectedAt       *time.Time              `json:"expected_at,omitempty"`
}

type updateJobStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func jobIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "jobId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid job id")
	}
	return id, nil
}

// JobsList returns the shop's job sheets newest-first.
func JobsList(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
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

		responses.WriteSuccess(w, map[string]any{"jobs": rows, "next_cursor": next})
	}
}

// JobsCreate registers a new job sheet with a server-generated job number.
func JobsCreate(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createJobRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), shopID, jobs.CreateJobInput{
			CustomerName:     body.CustomerName,
			CustomerPhone:    body.CustomerPhone,
			CustomerAddress:  body.CustomerAddress,
			DeviceCategory:   body.DeviceCategory,
			DeviceModel:      body.DeviceModel,
			Problem:          body.Problem,
			Accessories:      body.Accessories,
			TechnicalDetails: body.TechnicalDetails,
			EstimatedCost:    body.EstimatedCost,
			AdvanceAmount:    body.AdvanceAmount,
			ReceivedAt:       body.ReceivedAt,
			ExpectedAt:       body.ExpectedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// JobsGet loads a single job sheet scoped to the caller's shop.
func JobsGet(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := jobIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), shopID, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// JobsUpdate adjusts the mutable job sheet fields.
func JobsUpdate(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := jobIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateJobRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), shopID, jobID, jobs.UpdateJobInput{
			CustomerName:     body.CustomerName,
			CustomerPhone:    body.CustomerPhone,
			CustomerAddress:  body.CustomerAddress,
			DeviceModel:      body.DeviceModel,
			Problem:          body.Problem,
			Accessories:      body.Accessories,
			TechnicalDetails: body.TechnicalDetails,
			EstimatedCost:    body.EstimatedCost,
			AdvanceAmount:    body.AdvanceAmount,
			ExpectedAt:       body.ExpectedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// JobsUpdateStatus moves a job through its lifecycle.
func JobsUpdateStatus(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := jobIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateJobStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), shopID, jobID, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// JobsDelete removes a job sheet.
func JobsDelete(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		shopID, err := shopIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobID, err := jobIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), shopID, jobID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
