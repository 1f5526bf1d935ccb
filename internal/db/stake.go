package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lockstake/staking-ledger/internal/db/model"
)

func (db *Database) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	_, err := db.collection(model.StakeCollection).InsertOne(ctx, stakeDoc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     stakeDoc.Account,
						Message: "stake already exists for account",
					}
				}
			}
		}
		return err
	}
	return nil
}

// UpsertStake replaces the stored stake document wholesale. Used for
// restoring a snapshot when an operation rolls back.
func (db *Database) UpsertStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	filter := bson.M{"_id": stakeDoc.Account}
	opts := options.Replace().SetUpsert(true)

	_, err := db.collection(model.StakeCollection).ReplaceOne(ctx, filter, stakeDoc, opts)
	return err
}

func (db *Database) UpdateStakeLastClaimTime(ctx context.Context, account string, lastClaimTime int64) error {
	filter := bson.M{"_id": account}
	update := bson.M{"$set": bson.M{"last_claim_time": lastClaimTime}}

	res := db.collection(model.StakeCollection).FindOneAndUpdate(ctx, filter, update)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return &NotFoundError{
				Key:     account,
				Message: "no stake found for account",
			}
		}
		return res.Err()
	}

	return nil
}

func (db *Database) DeleteStake(ctx context.Context, account string) error {
	filter := bson.M{"_id": account}

	result, err := db.collection(model.StakeCollection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete stake for account %s: %w", account, err)
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{
			Key:     account,
			Message: "no stake found for account",
		}
	}

	return nil
}

func (db *Database) GetStake(ctx context.Context, account string) (*model.StakeDocument, error) {
	filter := bson.M{"_id": account}

	var stakeDoc model.StakeDocument
	err := db.collection(model.StakeCollection).FindOne(ctx, filter).Decode(&stakeDoc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     account,
				Message: "no stake found for account",
			}
		}
		return nil, err
	}

	return &stakeDoc, nil
}

func (db *Database) GetAllStakes(ctx context.Context) ([]model.StakeDocument, error) {
	cursor, err := db.collection(model.StakeCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stakes []model.StakeDocument
	if err = cursor.All(ctx, &stakes); err != nil {
		return nil, err
	}

	return stakes, nil
}
