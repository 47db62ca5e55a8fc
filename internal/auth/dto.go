package auth

import "github.com/fixflowhq/fixflow-backend/internal/shops"

// SignupInput captures the fields required to register a shop.
type SignupInput struct {
	Email     string
	Password  string
	Phone     string
	ShopName  string
	OwnerName string
	Category  *string
	Address   *string
}

// LoginInput captures login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResultDTO is returned on successful login.
type AuthResultDTO struct {
	Shop  *shops.ShopDTO `json:"shop"`
	Token string         `json:"token"`
}
