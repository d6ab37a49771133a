//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Directorio-api/pkg/config"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	// La imagen debian trae ICU, necesario para la collation ci_ai.
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "directorio_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/directorio_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(username, email, contact string) *entity.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "$2a$10$hash",
		Address:      "Calle 1",
		Email:        email,
		Contact:      contact,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "las migraciones son idempotentes")

	repo := postgres.NewUserRepository(pool, entity.UserSchema)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	u := newUser("José Pérez", "Jose@Example.com", "300")
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, []string{}, u.Qualification)
	assert.Equal(t, []string{"Employee"}, u.Roles)

	t.Run("busquedas insensibles a mayusculas y acentos", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "jose@example.COM")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)

		got, err = repo.FindByUsername(ctx, "jose perez")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)

		got, err = repo.FindByContact(ctx, "999")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list no devuelve el hash", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Empty(t, list[0].PasswordHash)
	})

	t.Run("save reemplaza los campos", func(t *testing.T) {
		u.Address = "Nueva 2"
		u.Roles = []string{"Admin"}
		u.Active = false
		require.NoError(t, repo.Save(ctx, u))

		got, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Nueva 2", got.Address)
		assert.Equal(t, []string{"Admin"}, got.Roles)
		assert.False(t, got.Active)
		assert.Equal(t, u.PasswordHash, got.PasswordHash)
	})

	t.Run("registro invalido", func(t *testing.T) {
		bad := newUser("X", "x@x.co", "1")
		bad.Address = " "
		assert.ErrorIs(t, repo.Create(ctx, bad), entity.ErrInvalidRecord)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, u.ID))
		got, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
