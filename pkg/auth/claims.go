package auth

import (
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ShopID uuid.UUID
	Role   enums.ShopRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ShopID uuid.UUID      `json:"shop_id"`
	Role   enums.ShopRole `json:"role"`
	jwt.RegisteredClaims
}
