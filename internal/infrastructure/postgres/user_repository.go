package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, address, email, contact, qualification, roles, active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// username, email y contact usan la collation ci_ai, así que "=" ignora mayúsculas y acentos.
type UserRepo struct {
	q      Querier
	schema entity.Schema
}

// NewUserRepository construye el adaptador. Acepta pool o tx (Querier).
func NewUserRepository(q Querier, schema entity.Schema) *UserRepo {
	return &UserRepo{q: q, schema: schema}
}

// List lista todos los usuarios por fecha de alta, sin leer el hash.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT id, username, address, email, contact, qualification, roles, active, created_at, updated_at
		FROM users ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Address, &u.Email, &u.Contact,
			&u.Qualification, &u.Roles, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepo) FindByContact(ctx context.Context, contact string) (*entity.User, error) {
	return r.findOne(ctx, "contact", contact)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", username)
}

// findOne busca el primer usuario (por fecha de alta) cuyo column coincide; column es
// siempre una constante de este archivo.
func (r *UserRepo) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1 ORDER BY created_at LIMIT 1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, value).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Address, &u.Email, &u.Contact,
		&u.Qualification, &u.Roles, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return &u, nil
}

// Create persiste un nuevo usuario aplicando los defaults del esquema.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.schema.ApplyDefaults(user)
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Address, user.Email, user.Contact,
		user.Qualification, user.Roles, user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", entity.ErrInvalidRecord, err)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: id %s already used", user.ID)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Save actualiza todos los campos mutables de un usuario.
func (r *UserRepo) Save(ctx context.Context, user *entity.User) error {
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	query := `
		UPDATE users SET username = $2, password_hash = $3, address = $4, email = $5, contact = $6,
			qualification = $7, roles = $8, active = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Address, user.Email, user.Contact,
		user.Qualification, user.Roles, user.Active, user.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", entity.ErrInvalidRecord, err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user: id %s not found", user.ID)
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
