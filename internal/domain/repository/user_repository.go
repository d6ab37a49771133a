package repository

import (
	"context"

	"github.com/jhoicas/Directorio-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
//
// Las búsquedas por campo (email, contact, username) ignoran mayúsculas y acentos.
// Los Find* devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	// List devuelve todos los usuarios en el orden natural del motor, sin PasswordHash.
	List(ctx context.Context) ([]*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByContact(ctx context.Context, contact string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// Create aplica los defaults del esquema y persiste. Devuelve entity.ErrInvalidRecord si el registro no es válido.
	Create(ctx context.Context, user *entity.User) error
	// Save reemplaza los campos mutables de un usuario existente.
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}
