// Package usecase implements the business logic for the auth feature.
package usecase

import "shop_backend/internal/shared/apperr"

var (
	// ErrMissingFields is returned when a required registration field is empty.
	ErrMissingFields = apperr.New(apperr.ErrValidation, "Todos los campos obligatorios deben ser completados.")

	// ErrPasswordMismatch is returned when the password confirmation does not match.
	ErrPasswordMismatch = apperr.New(apperr.ErrValidation, "Las contraseñas no coinciden.")

	// ErrInvalidEmail is returned when the email is not a valid address.
	ErrInvalidEmail = apperr.New(apperr.ErrValidation, "El formato del correo electrónico no es válido.")

	// ErrUsernameTooLong is returned when the username exceeds the column width.
	ErrUsernameTooLong = apperr.New(apperr.ErrValidation, "El nombre de usuario no puede superar 18 caracteres.")

	// ErrInvalidGender is returned for a gender outside the enumerated set.
	ErrInvalidGender = apperr.New(apperr.ErrValidation, "Género no válido.")

	// ErrPasswordTooLong is returned when bcrypt cannot hash the password.
	ErrPasswordTooLong = apperr.New(apperr.ErrValidation, "La contraseña es demasiado larga.")

	// ErrIncompletePasswordChange is returned when only one of old/new password is supplied.
	ErrIncompletePasswordChange = apperr.New(apperr.ErrValidation, "Debes indicar la contraseña anterior y la nueva.")

	// ErrSamePassword is returned when the new password verifies against the stored hash.
	ErrSamePassword = apperr.New(apperr.ErrValidation, "No puedes usar la misma contraseña.")

	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = apperr.New(apperr.ErrConflict, "El correo electrónico o nombre de usuario ya está en uso.")

	// ErrInvalidCredentials is returned when login verification fails for any reason.
	ErrInvalidCredentials = apperr.New(apperr.ErrAuth, "Credenciales incorrectas.")

	// ErrWrongOldPassword is returned when the current password does not verify.
	ErrWrongOldPassword = apperr.New(apperr.ErrAuth, "Contraseña anterior incorrecta.")

	// ErrUserNotFound is returned when a user cannot be found by ID or login.
	ErrUserNotFound = apperr.New(apperr.ErrNotFound, "Usuario no encontrado.")

	// ErrAdminNotFound is returned when an admin cannot be found by login.
	ErrAdminNotFound = apperr.New(apperr.ErrNotFound, "Administrador no encontrado.")

	// ErrNotLoggedIn is returned when a request carries no session token.
	ErrNotLoggedIn = apperr.New(apperr.ErrUnauthenticated, "Debes iniciar sesión.")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = apperr.New(apperr.ErrUnauthenticated, "Sesión no válida.")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = apperr.New(apperr.ErrUnauthenticated, "La sesión ha expirado.")

	// ErrAdminOnly is returned when the resolved identity lacks the admin role.
	ErrAdminOnly = apperr.New(apperr.ErrForbidden, "Acceso denegado: Solo para administradores.")

	// ErrUserOnly is returned when an admin session hits a customer-only operation.
	ErrUserOnly = apperr.New(apperr.ErrForbidden, "Acceso denegado: Solo para clientes.")
)
