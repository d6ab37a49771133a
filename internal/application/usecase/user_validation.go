package usecase

import (
	"strconv"
	"strings"

	"github.com/jhoicas/Directorio-api/internal/application/dto"
	"github.com/jhoicas/Directorio-api/internal/domain"
)

// Mensajes de validación devueltos al cliente.
const (
	msgCreateFieldsRequired = "all fields are required"
	msgUpdateFieldsRequired = "all fields except password are required"
	msgUserIDRequired       = "user id required"
)

// CreateUserInput entrada validada de Create. Qualification y Roles son nil cuando
// no se aplicaron y deben quedar los defaults del esquema.
type CreateUserInput struct {
	Username      string
	Password      string
	Address       string
	Email         string
	Contact       string
	Qualification []string
	Roles         []string
}

// UpdateUserInput entrada validada de Update. Password vacío conserva el hash actual.
type UpdateUserInput struct {
	ID            string
	Username      string
	Password      string
	Address       string
	Email         string
	Contact       string
	Qualification []string
	Roles         []string
	Active        bool
}

// BuildUsername une las partes no vacías del nombre con un espacio, en orden nombre, segundo nombre, apellido.
func BuildUsername(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if len(p) > 0 {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ValidateCreateUser convierte el cuerpo crudo en CreateUserInput o devuelve ErrInvalidInput.
// middlename y lastname pueden ser "" pero deben venir en el cuerpo.
func ValidateCreateUser(in dto.CreateUserRequest) (CreateUserInput, error) {
	if in.FirstName == nil || in.MiddleName == nil || in.LastName == nil {
		return CreateUserInput{}, domain.NewError(domain.ErrInvalidInput, msgCreateFieldsRequired)
	}
	if *in.FirstName == "" || in.Password == "" || in.Address == "" || in.Email == "" || in.Contact == "" {
		return CreateUserInput{}, domain.NewError(domain.ErrInvalidInput, msgCreateFieldsRequired)
	}

	out := CreateUserInput{
		Username: BuildUsername(*in.FirstName, *in.MiddleName, *in.LastName),
		Password: in.Password,
		Address:  in.Address,
		Email:    in.Email,
		Contact:  in.Contact,
	}
	// Solo se aplican si llegan las dos listas no vacías; si falta una se descartan ambas.
	qualification, okQ := stringList(in.Qualification)
	roles, okR := stringList(in.Roles)
	if okQ && okR {
		out.Qualification = qualification
		out.Roles = roles
	}
	return out, nil
}

// ValidateUpdateUser convierte el cuerpo crudo en UpdateUserInput o devuelve ErrInvalidInput.
// Aquí qualification y roles son obligatorias y active debe ser booleano.
func ValidateUpdateUser(in dto.UpdateUserRequest) (UpdateUserInput, error) {
	invalid := domain.NewError(domain.ErrInvalidInput, msgUpdateFieldsRequired)
	if in.ID == "" || in.Username == "" || in.Address == "" || in.Email == "" || in.Contact == "" {
		return UpdateUserInput{}, invalid
	}
	qualification, ok := stringList(in.Qualification)
	if !ok {
		return UpdateUserInput{}, invalid
	}
	roles, ok := stringList(in.Roles)
	if !ok {
		return UpdateUserInput{}, invalid
	}
	active, ok := in.Active.(bool)
	if !ok {
		return UpdateUserInput{}, invalid
	}
	return UpdateUserInput{
		ID:            in.ID,
		Username:      in.Username,
		Password:      in.Password,
		Address:       in.Address,
		Email:         in.Email,
		Contact:       in.Contact,
		Qualification: qualification,
		Roles:         roles,
		Active:        active,
	}, nil
}

// ValidateDeleteUser exige el id.
func ValidateDeleteUser(in dto.DeleteUserRequest) (string, error) {
	if in.ID == "" {
		return "", domain.NewError(domain.ErrInvalidInput, msgUserIDRequired)
	}
	return in.ID, nil
}

// stringList acepta []string o []any (lo que produce encoding/json) con al menos un
// elemento. Los escalares (números y booleanos) se convierten a texto; null, objetos
// y listas anidadas invalidan la lista.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		if len(list) == 0 {
			return nil, false
		}
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		if len(list) == 0 {
			return nil, false
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := scalarString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}
