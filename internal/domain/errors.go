package domain

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrHoldNotFound         = errors.New("hold not found")
	ErrProductOnHold        = errors.New("product already has an active hold")
	ErrNoProductsOnHold     = errors.New("hold has no products")
	ErrNoExpirationSet      = errors.New("hold has no expiration to extend")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrInvalidPrice         = errors.New("price must be a positive number")
	ErrInvalidInventory     = errors.New("inventory must be zero or greater")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldName     = errors.New("invalid field name")
	ErrInvalidID            = errors.New("invalid id")
)
