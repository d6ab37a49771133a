package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Directorio-api/internal/application/dto"
)

// accountChecker es el contrato mínimo que necesita el middleware para verificar la cuenta.
// Lo implementa *auth.AuthUseCase.
type accountChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveAccount verifica en el almacén que el usuario del token siga existiendo
// y activo; un token emitido antes de desactivar la cuenta deja de servir.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 si no hay user_id en el contexto.
//   - 403 si la cuenta fue borrada o desactivada.
//   - 503 si falla la consulta al almacén.
func RequireActiveAccount(checker accountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_CHECK_FAILED",
				Message: "no se pudo verificar la cuenta, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_DISABLED",
				Message: "la cuenta no existe o está inactiva",
			})
		}
		return c.Next()
	}
}
