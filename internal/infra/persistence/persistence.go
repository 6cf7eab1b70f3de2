// Package persistence selects the user store named by storage.driver and exposes it to fx.
package persistence

import (
	"log/slog"

	"cyberauth/config"
	"cyberauth/internal/domain/repository"
	"cyberauth/internal/infra/persistence/memory"
	"cyberauth/internal/infra/persistence/mongodb"
	"cyberauth/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Result is the set of repositories provided to the use case layer.
type Result struct {
	fx.Out

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
}

// New opens the configured store. Connections are verified in fx OnStart hooks.
func New(params Params) (Result, error) {
	driver := params.Config.Storage.Driver

	switch driver {
	case "", config.StorageDriverMemory:
		store := memory.NewStore()
		params.Logger.Warn("Using in-memory user store; registrations are lost on restart")

		return Result{
			TxManager: memory.NewTransactionManager(store),
			UserRepo:  memory.NewUserRepository(store),
		}, nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager: postgres.NewTransactionManager(db),
			UserRepo:  postgres.NewUserRepository(db),
		}, nil

	case config.StorageDriverMongo:
		collection, err := mongodb.New(mongodb.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager: mongodb.NewTransactionManager(collection),
			UserRepo:  mongodb.NewUserRepository(collection),
		}, nil

	default:
		return Result{}, errors.Errorf("unknown storage driver %q", driver)
	}
}
