package entity

import "time"

// Roles conocidos. Roles es una lista libre; estos son los que entiende el RBAC.
const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)

// User representa una persona del directorio.
type User struct {
	ID            string
	Username      string
	PasswordHash  string // bcrypt; el texto plano nunca llega a persistirse
	Address       string
	Email         string
	Contact       string
	Qualification []string
	Roles         []string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole informa si el usuario tiene el rol (comparación exacta).
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
