package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// Códigos de error del servidor.
const (
	codeNamespaceExists           = 48
	codeDocumentValidationFailure = 121
)

// caseInsensitive equivale a { locale: "en", strength: 1 }.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 1}

type userDocument struct {
	ID            string    `bson:"_id"`
	Username      string    `bson:"username"`
	PasswordHash  string    `bson:"password,omitempty"`
	Address       string    `bson:"address"`
	Email         string    `bson:"email"`
	Contact       string    `bson:"contact"`
	Qualification []string  `bson:"qualification"`
	Roles         []string  `bson:"roles"`
	Active        bool      `bson:"active"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

// UserRepo implementación del puerto UserRepository sobre una colección de MongoDB.
type UserRepo struct {
	coll   *mongo.Collection
	schema entity.Schema
}

// NewUserRepository construye el adaptador sobre la colección que indica el esquema.
func NewUserRepository(db *mongo.Database, schema entity.Schema) *UserRepo {
	return &UserRepo{coll: db.Collection(schema.Collection()), schema: schema}
}

// EnsureSchema crea la colección con un validador $jsonSchema derivado del esquema
// y los índices con collation insensible. Es idempotente.
func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	required := r.schema.RequiredFields()
	props := bson.M{}
	for _, f := range required {
		props[f] = bson.M{"bsonType": "string", "minLength": 1}
	}
	validator := bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   required,
		"properties": props,
	}}

	db := r.coll.Database()
	err := db.CreateCollection(ctx, r.coll.Name(), options.CreateCollection().SetValidator(validator))
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists) {
		return fmt.Errorf("create collection %s: %w", r.coll.Name(), err)
	}

	models := make([]mongo.IndexModel, 0, 3)
	for _, f := range []string{entity.FieldEmail, entity.FieldContact, entity.FieldUsername} {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetCollation(caseInsensitive),
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// List devuelve todos los usuarios en orden natural, proyectando fuera el password.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	opts := options.Find().SetProjection(bson.D{{Key: entity.FieldPasswordHash, Value: 0}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*entity.User, 0, len(docs))
	for i := range docs {
		out = append(out, toEntity(&docs[i]))
	}
	return out, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}}, nil)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: entity.FieldEmail, Value: email}}, caseInsensitive)
}

func (r *UserRepo) FindByContact(ctx context.Context, contact string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: entity.FieldContact, Value: contact}}, caseInsensitive)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: entity.FieldUsername, Value: username}}, caseInsensitive)
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D, collation *options.Collation) (*entity.User, error) {
	opts := options.FindOne()
	if collation != nil {
		opts.SetCollation(collation)
	}
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toEntity(&doc), nil
}

// Create aplica los defaults del esquema e inserta el documento.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.schema.ApplyDefaults(user)
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, toDocument(user)); err != nil {
		if isValidationFailure(err) {
			return fmt.Errorf("%w: %v", entity.ErrInvalidRecord, err)
		}
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user: id %s already used", user.ID)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Save reemplaza el documento completo del usuario.
func (r *UserRepo) Save(ctx context.Context, user *entity.User) error {
	if err := r.schema.Validate(user); err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: user.ID}}, toDocument(user))
	if err != nil {
		if isValidationFailure(err) {
			return fmt.Errorf("%w: %v", entity.ErrInvalidRecord, err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: id %s not found", user.ID)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func isValidationFailure(err error) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == codeDocumentValidationFailure {
			return true
		}
	}
	return false
}

func toDocument(u *entity.User) userDocument {
	return userDocument{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Address:       u.Address,
		Email:         u.Email,
		Contact:       u.Contact,
		Qualification: u.Qualification,
		Roles:         u.Roles,
		Active:        u.Active,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toEntity(d *userDocument) *entity.User {
	return &entity.User{
		ID:            d.ID,
		Username:      d.Username,
		PasswordHash:  d.PasswordHash,
		Address:       d.Address,
		Email:         d.Email,
		Contact:       d.Contact,
		Qualification: d.Qualification,
		Roles:         d.Roles,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
