package db

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lockstake/staking-ledger/internal/db/model"
)

func (db *Database) SaveNewTier(ctx context.Context, tierDoc *model.TierDocument) error {
	_, err := db.collection(model.TierCollection).InsertOne(ctx, tierDoc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     strconv.FormatUint(uint64(tierDoc.LockPeriodDays), 10),
						Message: "tier with this lock period already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) UpdateTierAPY(ctx context.Context, position int, apyBasisPoints uint32) error {
	filter := bson.M{"_id": position}
	update := bson.M{"$set": bson.M{"apy_basis_points": apyBasisPoints}}

	res := db.collection(model.TierCollection).FindOneAndUpdate(ctx, filter, update)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return &NotFoundError{
				Key:     strconv.Itoa(position),
				Message: "no tier at position",
			}
		}
		return res.Err()
	}

	return nil
}

// GetAllTiers returns tiers in insertion order.
func (db *Database) GetAllTiers(ctx context.Context) ([]model.TierDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.TierCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tiers []model.TierDocument
	if err = cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}

	return tiers, nil
}
