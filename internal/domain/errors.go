package domain

import "errors"

// Errores de dominio (sin dependencias externas). Son las "clases" de fallo que
// la capa HTTP traduce a códigos de estado.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error es un fallo tipado: Kind es uno de los sentinelas de arriba y Message el texto
// corto que se devuelve al cliente.
type Error struct {
	Kind    error
	Message string
}

// NewError construye un error de dominio de la clase indicada.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

// Unwrap permite errors.Is(err, domain.ErrConflict), etc.
func (e *Error) Unwrap() error { return e.Kind }

// MessageOf devuelve el mensaje para el cliente si err es un *Error; si no, def.
func MessageOf(err error, def string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return def
}
