package controllers

import (
	"net/http"

	"github.com/fixflowhq/fixflow-backend/api/middleware"
	"github.com/fixflowhq/fixflow-backend/api/responses"
	"github.com/fixflowhq/fixflow-backend/api/validators"
	"github.com/fixflowhq/fixflow-backend/internal/auth"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
)

type signupRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Phone     string  `json:"phone" validate:"required,min=7"`
	ShopName  string  `json:"shop_name" validate:"required,min=1"`
	OwnerName string  `json:"owner_name" validate:"required,min=1"`
	Category  *string `json:"category,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSignup registers a new shop and starts its free trial.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shop, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:     body.Email,
			Password:  body.Password,
			Phone:     body.Phone,
			ShopName:  body.ShopName,
			OwnerName: body.OwnerName,
			Category:  body.Category,
			Address:   body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"shop": shop})
	}
}

// AuthLogin authenticates a shop and returns a session-backed token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-FF-Token", result.Token)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the caller's server-side session.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
