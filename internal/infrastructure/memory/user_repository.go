// Package memory implementa los puertos de persistencia en memoria del proceso.
// Útil en desarrollo (STORAGE_DRIVER=memory) y en tests; no sobrevive a reinicios.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
	"github.com/jhoicas/Directorio-api/pkg/collation"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// indexedFields campos con búsqueda insensible a mayúsculas y acentos.
var indexedFields = []string{entity.FieldEmail, entity.FieldContact, entity.FieldUsername}

// UserRepo guarda usuarios en un mapa protegido por mutex y conserva el orden de inserción.
// email, contact y username se indexan por collation.Key.
type UserRepo struct {
	schema entity.Schema

	mu    sync.RWMutex
	byID  map[string]*entity.User
	order []string
	seq   map[string]uint64
	next  uint64
	index map[string]map[string]map[string]struct{} // campo -> clave plegada -> ids
	used  map[string]struct{}                       // ids emitidos alguna vez, también los borrados
}

// NewUserRepository construye el repositorio vacío para el esquema dado.
func NewUserRepository(schema entity.Schema) *UserRepo {
	index := make(map[string]map[string]map[string]struct{}, len(indexedFields))
	for _, f := range indexedFields {
		index[f] = make(map[string]map[string]struct{})
	}
	return &UserRepo{
		schema: schema,
		byID:   make(map[string]*entity.User),
		seq:    make(map[string]uint64),
		index:  index,
		used:   make(map[string]struct{}),
	}
}

// List devuelve copias sin PasswordHash en orden de inserción.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.order))
	for _, id := range r.order {
		u := cloneUser(r.byID[id])
		u.PasswordHash = ""
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.lookup(entity.FieldEmail, email), nil
}

func (r *UserRepo) FindByContact(_ context.Context, contact string) (*entity.User, error) {
	return r.lookup(entity.FieldContact, contact), nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.lookup(entity.FieldUsername, username), nil
}

// Create aplica defaults del esquema, valida y guarda una copia.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.schema.ApplyDefaults(user)
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.used[user.ID]; ok {
		return fmt.Errorf("insert user: id %s already used", user.ID)
	}
	r.used[user.ID] = struct{}{}
	u := cloneUser(user)
	r.byID[user.ID] = u
	r.order = append(r.order, user.ID)
	r.next++
	r.seq[user.ID] = r.next
	r.addToIndex(u)
	return nil
}

// Save reemplaza el registro existente.
func (r *UserRepo) Save(_ context.Context, user *entity.User) error {
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[user.ID]
	if !ok {
		return fmt.Errorf("update user: id %s not found", user.ID)
	}
	u := cloneUser(user)
	u.CreatedAt = prev.CreatedAt
	r.removeFromIndex(prev)
	r.byID[user.ID] = u
	r.addToIndex(u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[id]
	if !ok {
		return nil
	}
	r.removeFromIndex(prev)
	delete(r.byID, id)
	delete(r.seq, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// lookup resuelve por el índice y confirma con collation.Equal; entre varios
// candidatos gana el primero en insertarse.
func (r *UserRepo) lookup(field, value string) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *entity.User
	for id := range r.index[field][collation.Key(value)] {
		u := r.byID[id]
		if !collation.Equal(fieldOf(u, field), value) {
			continue
		}
		if best == nil || r.seq[id] < r.seq[best.ID] {
			best = u
		}
	}
	if best == nil {
		return nil
	}
	return cloneUser(best)
}

func (r *UserRepo) addToIndex(u *entity.User) {
	for _, f := range indexedFields {
		k := collation.Key(fieldOf(u, f))
		ids, ok := r.index[f][k]
		if !ok {
			ids = make(map[string]struct{})
			r.index[f][k] = ids
		}
		ids[u.ID] = struct{}{}
	}
}

func (r *UserRepo) removeFromIndex(u *entity.User) {
	for _, f := range indexedFields {
		k := collation.Key(fieldOf(u, f))
		delete(r.index[f][k], u.ID)
		if len(r.index[f][k]) == 0 {
			delete(r.index[f], k)
		}
	}
}

func fieldOf(u *entity.User, field string) string {
	switch field {
	case entity.FieldEmail:
		return u.Email
	case entity.FieldContact:
		return u.Contact
	case entity.FieldUsername:
		return u.Username
	}
	return ""
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Qualification = append([]string(nil), u.Qualification...)
	c.Roles = append([]string(nil), u.Roles...)
	if c.Qualification == nil {
		c.Qualification = []string{}
	}
	if c.Roles == nil {
		c.Roles = []string{}
	}
	return &c
}
