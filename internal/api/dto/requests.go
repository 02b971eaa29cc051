package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ExchangePublicTokenRequest struct {
	PublicToken string `json:"publicToken" validate:"required"`
}

// UpdateSubscriptionRequest is a partial patch; nil fields stay untouched.
// Status and billing cycle are validated against the canonical enums in
// the service, not here, so the error carries the right taxonomy.
type UpdateSubscriptionRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Amount       *decimal.Decimal `json:"amount"`
	Category     *string          `json:"category" validate:"omitempty,max=255"`
	Status       *string          `json:"status"`
	BillingCycle *string          `json:"billingCycle"`
}

var Validate = validator.New()
