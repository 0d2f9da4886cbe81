// Package usecase implements the business logic for the catalog feature.
package usecase

import "shop_backend/internal/shared/apperr"

var (
	// ErrProductNotFound is returned when a product cannot be found by ID.
	ErrProductNotFound = apperr.New(apperr.ErrNotFound, "Producto no encontrado.")

	// ErrInsufficientStock is returned when a product has fewer units than requested.
	ErrInsufficientStock = apperr.New(apperr.ErrInsufficientStock, "Stock insuficiente.")

	// ErrMissingProductFields is returned when a required product field is absent.
	ErrMissingProductFields = apperr.New(apperr.ErrValidation, "Todos los campos son obligatorios.")

	ErrInvalidPrice       = apperr.New(apperr.ErrValidation, "El precio debe ser mayor que cero y no superar 99999999.99.")
	ErrInvalidStock       = apperr.New(apperr.ErrValidation, "El stock no puede ser negativo.")
	ErrInvalidQuantity    = apperr.New(apperr.ErrValidation, "La cantidad debe ser mayor que cero.")
	ErrNameTooLong        = apperr.New(apperr.ErrValidation, "El nombre no puede superar 50 caracteres.")
	ErrDescriptionTooLong = apperr.New(apperr.ErrValidation, "La descripción no puede superar 200 caracteres.")

	// ErrCopywriterDisabled is returned by SuggestDescription when no copywriter is configured.
	ErrCopywriterDisabled = apperr.New(apperr.ErrValidation, "La generación de descripciones no está habilitada.")
)
