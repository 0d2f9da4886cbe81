// Package usecase implements the purchase flow.
package usecase

import "shop_backend/internal/shared/apperr"

var (
	// ErrLoginRequired is returned when the buyer is not a logged-in customer.
	ErrLoginRequired = apperr.New(apperr.ErrUnauthenticated, "Debes iniciar sesión para comprar.")

	// ErrMissingShipping is returned when any shipping field is blank.
	ErrMissingShipping = apperr.New(apperr.ErrValidation, "Todos los campos de envío son obligatorios.")

	ErrInvalidQuantity = apperr.New(apperr.ErrValidation, "La cantidad debe ser mayor que cero.")

	// ErrInvalidBody is returned when the request body is not a readable purchase form.
	ErrInvalidBody = apperr.New(apperr.ErrValidation, "Datos de compra no válidos.")
)
