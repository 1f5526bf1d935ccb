package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lockstake/staking-ledger/internal/config"
)

const setupTimeout = 30 * time.Second

var collections = map[string][]mongo.IndexModel{
	StakeCollection: {},
	TierCollection: {
		{Keys: bson.D{{Key: "lock_period_days", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	LedgerStateCollection: {},
}

// Setup creates the collections and indexes used by the ledger. It is
// idempotent and safe to run on every startup.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	database := client.Database(cfg.DbName)

	existing, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}
	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}

	for name, indexes := range collections {
		if !existingSet[name] {
			if err := database.CreateCollection(ctx, name); err != nil {
				return err
			}
		}
		if len(indexes) == 0 {
			continue
		}
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}

	return client.Disconnect(ctx)
}
