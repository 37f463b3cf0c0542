package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"qrgen/internal/auth/models"
	platformmongo "qrgen/internal/platform/mongo"
	id "qrgen/pkg/domain"
	"qrgen/pkg/platform/sentinel"
)

// errLegacyObjectID is returned for documents whose _id is an ObjectId. Users
// are keyed by UUID strings, so a collection written by the older service has
// to be migrated before this store can read it.
var errLegacyObjectID = errors.New("user document has an ObjectId _id; migrate legacy users to UUID ids")

// userDocument uses the field names of the older users collection, but _id is
// a UUID string rather than an ObjectId. The two layouts cannot share a
// collection.
type userDocument struct {
	ID        string    `bson:"_id"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoStore persists users in the users collection. Email uniqueness relies
// on the unique index created by platform/mongo.EnsureIndexes.
type MongoStore struct {
	users *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection(platformmongo.UsersCollection)}
}

func (s *MongoStore) Save(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": userID.String()})
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	raw, err := s.users.FindOne(ctx, filter).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return decodeUser(raw)
}

func decodeUser(raw bson.Raw) (*models.User, error) {
	if raw.Lookup("_id").Type == bson.TypeObjectID {
		return nil, errLegacyObjectID
	}
	var doc userDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	userID, err := id.ParseUserID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", doc.ID, err)
	}
	return &models.User{
		ID:           userID,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}
