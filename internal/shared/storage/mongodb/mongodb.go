package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"agri-backend/internal/shared/telemetry"
)

const defaultPingTimeout = 5 * time.Second

// Connect opens a client for uri, verifies it with a ping and returns the
// named database. Callers own the client and must Disconnect it.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, fmt.Errorf("mongo database name is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	telemetry.Info("mongo.init", map[string]any{"database": database})
	return client.Database(database), nil
}
