package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Directorio-api/internal/application/auth"
	"github.com/jhoicas/Directorio-api/internal/application/report"
	"github.com/jhoicas/Directorio-api/internal/application/usecase"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/security"
	apphttp "github.com/jhoicas/Directorio-api/internal/interfaces/http"
	"github.com/jhoicas/Directorio-api/pkg/logger"
	pkgjwt "github.com/jhoicas/Directorio-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: router completo sobre el repositorio en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRoster struct{}

func (fakeRoster) GenerateRosterPDF(_ context.Context, _ string, users []*entity.User, _ time.Time) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type testEnv struct {
	app      *fiber.App
	repo     *memory.UserRepo
	admin    string
	manager  string
	employee string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.NewUserRepository(entity.UserSchema)
	return newTestEnvWith(t, repo, repo)
}

// newTestEnvWith permite que el caso de uso de usuarios use un repositorio distinto
// del que consulta la autenticación.
func newTestEnvWith(t *testing.T, repo *memory.UserRepo, userRepo repository.UserRepository) *testEnv {
	t.Helper()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	env := &testEnv{repo: repo}
	env.admin = seedUser(t, repo, hasher, "u-admin", "Ada Admin", "admin@x.co", "100", entity.RoleAdmin)
	env.manager = seedUser(t, repo, hasher, "u-manager", "Max Manager", "manager@x.co", "101", entity.RoleManager)
	env.employee = seedUser(t, repo, hasher, "u-employee", "Eve Employee", "employee@x.co", "102", entity.RoleEmployee)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		UserUC:    usecase.NewUserUseCase(userRepo, hasher),
		AuthUC:    auth.NewAuthUseCase(repo, hasher, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		RosterUC:  report.NewRosterUseCase(userRepo, fakeRoster{}, "Directorio"),
		JWTSecret: testJWTSecret,
		Logger:    logger.Nop(),
	})
	env.app = app
	return env
}

func seedUser(t *testing.T, repo *memory.UserRepo, hasher *security.BcryptHasher, id, username, email, contact, role string) string {
	t.Helper()
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		ID: id, Username: username, PasswordHash: hash, Address: "Calle 1",
		Email: email, Contact: contact, Roles: []string{role}, Active: true,
	}))
	tok, err := pkgjwt.Generate(testJWTSecret, id, username, []string{role}, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) send(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		rd = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func newUserBody(email, contact string) map[string]any {
	return map[string]any{
		"firstname":  "Jane",
		"middlename": "",
		"lastname":   "Doe",
		"password":   "pw",
		"address":    "Calle 9",
		"email":      email,
		"contact":    contact,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/users
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_SinPassword(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.send(t, http.MethodGet, "/api/users", env.employee, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 3)
	for _, u := range list {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "password_hash")
	}
	assert.Equal(t, "Ada Admin", list[0]["username"])
}

func TestListUsers_SinToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.send(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListUsers_VacioEs404(t *testing.T) {
	repo := memory.NewUserRepository(entity.UserSchema)
	env := newTestEnvWith(t, repo, memory.NewUserRepository(entity.UserSchema))

	resp, raw := env.send(t, http.MethodGet, "/api/users", env.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no users found", decodeMap(t, raw)["message"])
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/users
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_Flujo(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.send(t, http.MethodPost, "/api/users", env.manager, newUserBody("jane@x.co", "300"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, "New user Jane Doe created", decodeMap(t, raw)["message"])

	resp, raw = env.send(t, http.MethodPost, "/api/users", env.admin, newUserBody("JANE@X.CO", "300"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate email and contact", decodeMap(t, raw)["message"])

	resp, raw = env.send(t, http.MethodPost, "/api/users", env.admin, newUserBody("jane@x.co", "999"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate email", decodeMap(t, raw)["message"])

	resp, raw = env.send(t, http.MethodPost, "/api/users", env.admin, newUserBody("otra@x.co", "300"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate contact", decodeMap(t, raw)["message"])
}

func TestCreateUser_CamposFaltantes(t *testing.T) {
	env := newTestEnv(t)

	body := newUserBody("jane@x.co", "300")
	delete(body, "lastname")
	resp, raw := env.send(t, http.MethodPost, "/api/users", env.admin, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeMap(t, raw)["code"])

	body = newUserBody("jane@x.co", "300")
	body["password"] = ""
	resp, _ = env.send(t, http.MethodPost, "/api/users", env.admin, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateUser_CuerpoInvalido(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.send(t, http.MethodPost, "/api/users", env.admin, "{no es json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeMap(t, raw)["code"])
}

func TestCreateUser_EmployeeNoPuede(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.send(t, http.MethodPost, "/api/users", env.employee, newUserBody("jane@x.co", "300"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// PATCH /api/users
// ──────────────────────────────────────────────────────────────────────────────

func updateBody(id, username string) map[string]any {
	return map[string]any{
		"id":            id,
		"username":      username,
		"address":       "Nueva 2",
		"email":         "employee@x.co",
		"contact":       "102",
		"qualification": []string{"BSc"},
		"roles":         []string{"Employee"},
		"active":        true,
	}
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.send(t, http.MethodPatch, "/api/users", env.admin, updateBody("u-employee", "Eve E."))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "Eve E. updated", decodeMap(t, raw)["message"])

	got, err := env.repo.FindByID(context.Background(), "u-employee")
	require.NoError(t, err)
	assert.Equal(t, "Nueva 2", got.Address)
	assert.Equal(t, []string{"BSc"}, got.Qualification)
}

func TestUpdateUser_Errores(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.send(t, http.MethodPatch, "/api/users", env.admin, updateBody("u-employee", "ada admin"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "duplicate username", decodeMap(t, raw)["message"])

	resp, _ = env.send(t, http.MethodPatch, "/api/users", env.admin, updateBody("nope", "Nadie"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := updateBody("u-employee", "Eve")
	body["active"] = "true"
	resp, _ = env.send(t, http.MethodPatch, "/api/users", env.admin, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "active debe ser booleano")

	body = updateBody("u-employee", "Eve")
	body["roles"] = []string{}
	resp, _ = env.send(t, http.MethodPatch, "/api/users", env.admin, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "roles no puede ser vacío")
}

// ──────────────────────────────────────────────────────────────────────────────
// DELETE /api/users
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.send(t, http.MethodDelete, "/api/users", env.manager, map[string]string{"id": "u-employee"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo Admin borra")

	resp, _ = env.send(t, http.MethodDelete, "/api/users", env.admin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := env.send(t, http.MethodDelete, "/api/users", env.admin, map[string]string{"id": "u-employee"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Username Eve Employee with ID u-employee deleted", decodeMap(t, raw)["message"])

	resp, _ = env.send(t, http.MethodDelete, "/api/users", env.admin, map[string]string{"id": "u-employee"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// El token del usuario borrado deja de servir.
	resp, _ = env.send(t, http.MethodGet, "/api/users", env.employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login, roster y errores internos
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenSirveParaListar(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.send(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ADMIN@x.co", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	token, _ := decodeMap(t, raw)["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = env.send(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.send(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@x.co", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoster_DescargaPDF(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.send(t, http.MethodGet, "/api/users/roster.pdf", env.employee, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "roster-")
	assert.Equal(t, "%PDF-fake", string(raw))
}

// brokenRepo falla en List con un error de backend sin clasificar.
type brokenRepo struct {
	*memory.UserRepo
}

func (brokenRepo) List(context.Context) ([]*entity.User, error) {
	return nil, errors.New("connection reset")
}

func TestListUsers_ErrorDeBackendEs500(t *testing.T) {
	repo := memory.NewUserRepository(entity.UserSchema)
	env := newTestEnvWith(t, repo, brokenRepo{repo})

	resp, raw := env.send(t, http.MethodGet, "/api/users", env.admin, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeMap(t, raw)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.NotContains(t, body["message"], "connection reset")
}
