package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	"github.com/fixflowhq/fixflow-backend/internal/workers"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
)

type assignWorkerRequest struct {
	WorkerID uuid.UUID `json:"worker_id" validate:"required"`
}

func workerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "workerId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid worker id")
	}
	return id, nil
}

// JobWorkersList returns the current worker set on a job.
func JobWorkersList(svc workers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worker service unavailable"))
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

		rows, err := svc.Assignments(r.Context(), shopID, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"workers": rows})
	}
}

// JobWorkersAssign puts a worker on a job.
func JobWorkersAssign(svc workers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worker service unavailable"))
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

		var body assignWorkerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Assign(r.Context(), shopID, jobID, body.WorkerID, shopID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"success": true})
	}
}

// JobWorkersRemove takes a worker off a job. The audit log keeps the history.
func JobWorkersRemove(svc workers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worker service unavailable"))
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
		workerID, err := workerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), shopID, jobID, workerID, shopID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// JobWorkersHistory returns the append-only assignment audit log for a job.
func JobWorkersHistory(svc workers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "worker service unavailable"))
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

		rows, err := svc.History(r.Context(), shopID, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"history": rows})
	}
}
