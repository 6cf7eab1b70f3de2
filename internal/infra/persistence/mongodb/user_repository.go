package mongodb

import (
	"context"
	"time"

	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/repository"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	fieldID    = "_id"
	fieldEmail = "email"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"` // bcrypt hash
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository returns a repository.UserRepository backed by the given collection.
func NewUserRepository(collection *mongo.Collection) repository.UserRepository {
	return &userRepository{collection: collection}
}

func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	return repo.findOne(ctx, bson.D{{Key: fieldID, Value: oid}}, "failed to find user by id")
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, bson.D{{Key: fieldEmail, Value: email}}, "failed to find user by email")
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.D, msg string) (*entity.User, error) {
	var doc userDocument
	if err := repo.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, msg)
	}

	return toUserDomain(&doc), nil
}

// Create inserts the user. The unique email index turns a concurrent duplicate into DuplicateEmail.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	doc, err := fromUserDomain(user)
	if err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	result, err := repo.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.CreatedAt = doc.CreatedAt

	return nil
}

func toUserDomain(doc *userDocument) *entity.User {
	if doc == nil {
		return nil
	}

	return &entity.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		Role:         entity.Role(doc.Role),
		CreatedAt:    doc.CreatedAt,
	}
}

func fromUserDomain(user *entity.User) (*userDocument, error) {
	if user == nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("user must not be nil")
	}

	doc := &userDocument{
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}

	if user.ID != "" {
		oid, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return nil, domainerrors.ErrInvalidInput.WithDetails("user id is not an ObjectID")
		}
		doc.ID = oid
	}

	return doc, nil
}
