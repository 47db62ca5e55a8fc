package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/api/middleware"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
)

// shopIDFromRequest resolves the tenant scope seeded by the auth middleware.
// A request that reached a private route without a shop claim surfaces the
// same "shopId is required" validation error the services use.
func shopIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ShopIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	return id, nil
}

// paginationFromRequest reads the shared limit/cursor query parameters.
func paginationFromRequest(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
