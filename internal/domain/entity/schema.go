package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord lo devuelven los adaptadores cuando un User no cumple el esquema.
var ErrInvalidRecord = errors.New("user record violates schema")

// Campos del esquema de usuarios (nombres lógicos; cada adaptador los mapea a columnas o claves).
const (
	FieldID            = "id"
	FieldUsername      = "username"
	FieldPasswordHash  = "password"
	FieldAddress       = "address"
	FieldEmail         = "email"
	FieldContact       = "contact"
	FieldQualification = "qualification"
	FieldRoles         = "roles"
	FieldActive        = "active"
)

// Schema describe un tipo de registro: colección, campos obligatorios y valores por
// defecto. Es inmutable; los getters devuelven copias.
type Schema struct {
	collection           string
	required             []string
	defaultQualification []string
	defaultRoles         []string
	defaultActive        bool
}

// UserSchema es la definición de la colección de usuarios que consumen los adaptadores al arrancar.
var UserSchema = Schema{
	collection:           "users",
	required:             []string{FieldUsername, FieldPasswordHash, FieldAddress, FieldEmail, FieldContact},
	defaultQualification: []string{},
	defaultRoles:         []string{RoleEmployee},
	defaultActive:        true,
}

func (s Schema) Collection() string { return s.collection }

func (s Schema) RequiredFields() []string { return clone(s.required) }

func (s Schema) DefaultQualification() []string { return clone(s.defaultQualification) }

func (s Schema) DefaultRoles() []string { return clone(s.defaultRoles) }

func (s Schema) DefaultActive() bool { return s.defaultActive }

// ApplyDefaults completa Qualification y Roles cuando vienen en nil.
// Un slice vacío pero no nil se respeta tal cual.
func (s Schema) ApplyDefaults(u *User) {
	if u.Qualification == nil {
		u.Qualification = s.DefaultQualification()
	}
	if u.Roles == nil {
		u.Roles = s.DefaultRoles()
	}
}

// Validate comprueba que los campos obligatorios no estén vacíos.
func (s Schema) Validate(u *User) error {
	if u == nil {
		return ErrInvalidRecord
	}
	var missing []string
	for _, f := range s.required {
		if strings.TrimSpace(fieldValue(u, f)) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}
	return nil
}

func fieldValue(u *User, field string) string {
	switch field {
	case FieldID:
		return u.ID
	case FieldUsername:
		return u.Username
	case FieldPasswordHash:
		return u.PasswordHash
	case FieldAddress:
		return u.Address
	case FieldEmail:
		return u.Email
	case FieldContact:
		return u.Contact
	}
	return ""
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
