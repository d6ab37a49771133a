package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost rondas de bcrypt por defecto (2^10).
const DefaultCost = 10

// MaxPasswordBytes bytes de la contraseña que bcrypt tiene en cuenta; el resto se ignora.
const MaxPasswordBytes = 72

// BcryptHasher hashea contraseñas con bcrypt; cada hash lleva su propia sal aleatoria.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher construye el hasher. Un cost fuera de rango usa DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash devuelve el digest bcrypt de plain. Solo cuentan los primeros MaxPasswordBytes.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Compare devuelve nil si plain corresponde al hash.
func (h *BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plain))
}

// Cost expone las rondas configuradas.
func (h *BcryptHasher) Cost() int { return h.cost }

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
