package usecase

// PasswordHasher es el primitivo de hashing de contraseñas (bcrypt en infraestructura).
// Hash debe usar una sal aleatoria por llamada.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
