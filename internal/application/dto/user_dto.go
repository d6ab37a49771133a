package dto

import "time"

// CreateUserRequest cuerpo crudo de POST /api/users.
// FirstName/MiddleName/LastName son punteros para distinguir "ausente" de "vacío".
// Qualification y Roles se reciben sin tipar: si no son listas no vacías se ignoran.
type CreateUserRequest struct {
	FirstName     *string `json:"firstname"`
	MiddleName    *string `json:"middlename"`
	LastName      *string `json:"lastname"`
	Password      string  `json:"password"`
	Address       string  `json:"address"`
	Email         string  `json:"email"`
	Contact       string  `json:"contact"`
	Qualification any     `json:"qualification,omitempty" swaggertype:"array,string"`
	Roles         any     `json:"roles,omitempty" swaggertype:"array,string"`
}

// UpdateUserRequest cuerpo crudo de PATCH /api/users. Password es opcional.
type UpdateUserRequest struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password,omitempty"`
	Address       string `json:"address"`
	Email         string `json:"email"`
	Contact       string `json:"contact"`
	Qualification any    `json:"qualification" swaggertype:"array,string"`
	Roles         any    `json:"roles" swaggertype:"array,string"`
	Active        any    `json:"active" swaggertype:"boolean"`
}

// DeleteUserRequest cuerpo de DELETE /api/users.
type DeleteUserRequest struct {
	ID string `json:"id"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	Contact       string    `json:"contact"`
	Qualification []string  `json:"qualification"`
	Roles         []string  `json:"roles"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
