package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lockstake/staking-ledger/internal/db/model"
)

func (db *Database) GetLedgerState(ctx context.Context) (*model.LedgerStateDocument, error) {
	filter := bson.M{"_id": model.LedgerStateID}

	var stateDoc model.LedgerStateDocument
	err := db.collection(model.LedgerStateCollection).FindOne(ctx, filter).Decode(&stateDoc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.LedgerStateID,
				Message: "ledger state not initialized",
			}
		}
		return nil, err
	}

	return &stateDoc, nil
}

func (db *Database) SetPaused(ctx context.Context, paused bool) error {
	return db.updateLedgerState(ctx, bson.M{"paused": paused})
}

func (db *Database) SetRewardPoolBalance(ctx context.Context, balance string) error {
	return db.updateLedgerState(ctx, bson.M{"reward_pool_balance": balance})
}

func (db *Database) updateLedgerState(ctx context.Context, fields bson.M) error {
	fields["last_updated"] = time.Now().Unix()

	filter := bson.M{"_id": model.LedgerStateID}
	update := bson.M{"$set": fields}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.LedgerStateCollection).UpdateOne(ctx, filter, update, opts)
	return err
}
