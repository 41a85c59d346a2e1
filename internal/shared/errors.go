package shared

import "errors"

var (
	// ErrInvalidCredentials is returned for every login failure so the
	// response never reveals which factor was wrong.
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	// ErrNotFound indicates the resource does not exist.
	ErrNotFound = errors.New("not found")
)
