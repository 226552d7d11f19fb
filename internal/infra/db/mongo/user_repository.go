package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	domainuser "roomies/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, domainuser.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)})
}

func (r *UserRepository) Create(ctx context.Context, u *domainuser.User) error {
	if u == nil {
		return errors.New("mongo: user is nil")
	}
	doc, err := newUserDocument(u)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainuser.ErrEmailAlreadyUsed
		}
		return fmt.Errorf("mongo: insert user: %w", err)
	}
	u.ID = domainuser.ID(doc.ID.Hex())
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: find user: %w", err)
	}
	return doc.toUser(), nil
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Province  string             `bson:"province"`
	CreatedAt int64              `bson:"created_at,omitempty"`
}

func newUserDocument(u *domainuser.User) (userDocument, error) {
	oid := primitive.NewObjectID()
	if u.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(string(u.ID))
		if err != nil {
			return userDocument{}, fmt.Errorf("mongo: user id %q: %w", u.ID, err)
		}
		oid = parsed
	}
	return userDocument{
		ID:        oid,
		Email:     domainuser.NormalizeEmail(u.Email),
		Password:  u.PasswordHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Province:  u.Province,
		CreatedAt: u.CreatedAt.UnixMilli(),
	}, nil
}

func (d userDocument) toUser() *domainuser.User {
	u := &domainuser.User{
		ID:           domainuser.ID(d.ID.Hex()),
		Email:        d.Email,
		PasswordHash: d.Password,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Province:     d.Province,
	}
	if d.CreatedAt != 0 {
		u.CreatedAt = time.UnixMilli(d.CreatedAt).UTC()
	}
	return u
}

var _ domainuser.Repository = (*UserRepository)(nil)
