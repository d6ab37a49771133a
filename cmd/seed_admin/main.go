// seed_admin crea el primer administrador del directorio a través del caso de uso de
// alta, con las mismas validaciones y reglas de unicidad que la API.
//
// Uso: go run ./cmd/seed_admin
// Lee SEED_ADMIN_FIRSTNAME, SEED_ADMIN_LASTNAME, SEED_ADMIN_PASSWORD, SEED_ADMIN_EMAIL,
// SEED_ADMIN_CONTACT y SEED_ADMIN_ADDRESS además de la configuración de almacenamiento.
// Si ya existe un usuario con ese email o contacto no hace nada.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Directorio-api/internal/application/dto"
	"github.com/jhoicas/Directorio-api/internal/application/usecase"
	"github.com/jhoicas/Directorio-api/internal/domain"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/mongo"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Directorio-api/internal/infrastructure/security"
	"github.com/jhoicas/Directorio-api/pkg/config"
	"github.com/jhoicas/Directorio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("seed_admin")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	var uc *usecase.UserUseCase

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
		uc = usecase.NewUserUseCase(postgres.NewUserRepository(pool, entity.UserSchema), hasher)
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return fmt.Errorf("conexión a MongoDB: %w", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		repo := mongo.NewUserRepository(client.Database(cfg.Mongo.Database), entity.UserSchema)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("esquema MongoDB: %w", err)
		}
		uc = usecase.NewUserUseCase(repo, hasher)
	default:
		return fmt.Errorf("seed_admin requiere un almacén persistente (postgres o mongo), no %q", cfg.Storage.Driver)
	}

	seed := cfg.Seed
	middle := ""
	out, err := uc.Create(ctx, dto.CreateUserRequest{
		FirstName:     &seed.FirstName,
		MiddleName:    &middle,
		LastName:      &seed.LastName,
		Password:      seed.Password,
		Address:       seed.Address,
		Email:         seed.Email,
		Contact:       seed.Contact,
		Qualification: []string{"System administrator"},
		Roles:         []string{entity.RoleAdmin},
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		log.Info().Str("email", seed.Email).Str("reason", domain.MessageOf(err, "")).Msg("el administrador ya existe")
		return nil
	case err != nil:
		return fmt.Errorf("crear administrador: %w", err)
	}
	log.Info().Str("email", seed.Email).Msg(out.Message)
	return nil
}
