// Package mongodb implements the user store on MongoDB.
package mongodb

import (
	"context"
	"log/slog"

	"cyberauth/config"
	"cyberauth/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

const emailIndexName = "uniq_users_email"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the client and returns the users collection. The server is pinged and the
// unique email index ensured in the fx OnStart hook.
func New(params Params) (*mongo.Collection, error) {
	cfg := params.Config.Mongo
	if cfg == nil {
		return nil, errors.New("mongo section is missing from config")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}

			if err := EnsureIndexes(ctx, collection); err != nil {
				return err
			}

			params.Logger.InfoContext(ctx, "MongoDB connected",
				slog.String("database", cfg.Database),
				slog.String("collection", cfg.Collection),
			)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return collection, nil
}

// EnsureIndexes creates the unique email index backing duplicate detection.
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fieldEmail, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create users email index")
	}

	return nil
}
