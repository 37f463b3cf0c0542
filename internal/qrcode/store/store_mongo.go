package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qrgen/internal/qrcode/models"
	platformmongo "qrgen/internal/platform/mongo"
	id "qrgen/pkg/domain"
	"qrgen/pkg/platform/sentinel"
)

type qrDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Type      string    `bson:"type"`
	Data      any       `bson:"data"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoStore persists records in the qrcodes collection.
type MongoStore struct {
	qrcodes *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{qrcodes: db.Collection(platformmongo.QRCodesCollection)}
}

func (s *MongoStore) Save(ctx context.Context, qr *models.QRCode) error {
	doc := qrDocument{
		ID:        qr.ID.String(),
		UserID:    qr.UserID.String(),
		Type:      qr.Type,
		Data:      qr.Data,
		CreatedAt: qr.CreatedAt,
	}
	if _, err := s.qrcodes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save qr code: %w", err)
	}
	return nil
}

// ListByUser sorts by createdAt descending. Documents sharing a timestamp are
// ordered by _id, which is random, so only the timestamp order is guaranteed.
func (s *MongoStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.QRCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.qrcodes.Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*models.QRCode, 0)
	for cursor.Next(ctx) {
		var doc qrDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode qr code: %w", err)
		}
		qrID, err := id.ParseQRCodeID(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("decode qr code id %q: %w", doc.ID, err)
		}
		records = append(records, &models.QRCode{
			ID:        qrID,
			UserID:    userID,
			Type:      doc.Type,
			Data:      doc.Data,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate qr codes: %w", err)
	}
	return records, nil
}
