//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	platformmongo "qrgen/internal/platform/mongo"
)

// MongoContainer wraps a MongoDB instance with indexes applied.
type MongoContainer struct {
	URI      string
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoContainer starts MongoDB, connects and creates the collection indexes.
func NewMongoContainer(t *testing.T) *MongoContainer {
	t.Helper()

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}
	testcontainers.CleanupContainer(t, container)

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get mongo connection string: %v", err)
	}

	client, err := platformmongo.Connect(ctx, uri)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("qrcode_test")
	if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("failed to create mongo indexes: %v", err)
	}

	return &MongoContainer{URI: uri, Client: client, Database: db}
}

// DropCollections removes the given collections and recreates indexes.
func (m *MongoContainer) DropCollections(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := m.Database.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return platformmongo.EnsureIndexes(ctx, m.Database)
}
