package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Directorio-api/internal/application/dto"
	"github.com/jhoicas/Directorio-api/internal/domain"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
)

// UserUseCase aplica las reglas del directorio de usuarios: listar, crear, actualizar y borrar.
//
// Cada operación sigue validar -> unicidad -> hash -> escritura sin bloqueo entre la
// consulta de duplicados y la escritura; la unicidad es "best effort".
type UserUseCase struct {
	repo   repository.UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el hasher.
func NewUserUseCase(repo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher, now: time.Now}
}

// List devuelve todos los usuarios sin el hash. Una colección vacía es ErrNotFound.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.NewError(domain.ErrNotFound, "no users found")
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// Create da de alta un usuario. El username se deriva de las partes del nombre.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.MessageResponse, error) {
	v, err := ValidateCreateUser(in)
	if err != nil {
		return nil, err
	}

	dupEmail, err := uc.repo.FindByEmail(ctx, v.Email)
	if err != nil {
		return nil, fmt.Errorf("check duplicate email: %w", err)
	}
	dupContact, err := uc.repo.FindByContact(ctx, v.Contact)
	if err != nil {
		return nil, fmt.Errorf("check duplicate contact: %w", err)
	}
	switch {
	case dupEmail != nil && dupContact != nil:
		return nil, domain.NewError(domain.ErrConflict, "duplicate email and contact")
	case dupEmail != nil:
		return nil, domain.NewError(domain.ErrConflict, "duplicate email")
	case dupContact != nil:
		return nil, domain.NewError(domain.ErrConflict, "duplicate contact")
	}

	hash, err := uc.hasher.Hash(v.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:            uuid.New().String(),
		Username:      v.Username,
		PasswordHash:  hash,
		Address:       v.Address,
		Email:         v.Email,
		Contact:       v.Contact,
		Qualification: v.Qualification,
		Roles:         v.Roles,
		Active:        entity.UserSchema.DefaultActive(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrInvalidRecord) {
			return nil, domain.NewError(domain.ErrInvalidInput, "invalid user data")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("New user %s created", user.Username)}, nil
}

// Update reemplaza los campos mutables de un usuario existente. El username no puede
// coincidir con el de otro usuario; email y contact no se revalidan.
func (uc *UserUseCase) Update(ctx context.Context, in dto.UpdateUserRequest) (*dto.MessageResponse, error) {
	v, err := ValidateUpdateUser(in)
	if err != nil {
		return nil, err
	}

	user, err := uc.repo.FindByID(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}

	dup, err := uc.repo.FindByUsername(ctx, v.Username)
	if err != nil {
		return nil, fmt.Errorf("check duplicate username: %w", err)
	}
	// Se permite "actualizar" al mismo usuario con su propio username.
	if dup != nil && dup.ID != v.ID {
		return nil, domain.NewError(domain.ErrConflict, "duplicate username")
	}

	user.Username = v.Username
	user.Address = v.Address
	user.Email = v.Email
	user.Contact = v.Contact
	user.Qualification = v.Qualification
	user.Roles = v.Roles
	user.Active = v.Active
	if v.Password != "" {
		hash, err := uc.hasher.Hash(v.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = uc.now()

	if err := uc.repo.Save(ctx, user); err != nil {
		if errors.Is(err, entity.ErrInvalidRecord) {
			return nil, domain.NewError(domain.ErrInvalidInput, "invalid user data")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("%s updated", user.Username)}, nil
}

// Delete elimina definitivamente un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, in dto.DeleteUserRequest) (*dto.MessageResponse, error) {
	id, err := ValidateDeleteUser(in)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	if err := uc.repo.Delete(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID)}, nil
}

// ToUserResponse proyecta la entidad sin el hash de la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Address:       u.Address,
		Email:         u.Email,
		Contact:       u.Contact,
		Qualification: u.Qualification,
		Roles:         u.Roles,
		Active:        u.Active,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
