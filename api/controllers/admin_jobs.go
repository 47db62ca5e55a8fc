package controllers

import (
	"net/http"

	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/internal/jobs"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
)

// AdminJobsList pages through job sheets across every shop, each row carrying
// a summary of its owning tenant.
func AdminJobsList(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		params, err := paginationFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.AdminList(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"jobs": rows, "next_cursor": next})
	}
}
