package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/storefront/internal/core/domain"
)

// CartRepository stores one document per cart line. The document id joins
// the owner and the line id, so adding a listing twice replaces the line.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCart)}
}

type cartDoc struct {
	Key             string `bson:"_id"`
	domain.CartLine `bson:",inline"`
}

func cartKey(identityID, lineID string) string {
	return identityID + ":" + lineID
}

// List returns the identity's lines in the order they were added.
func (r *CartRepository) List(ctx context.Context, identityID string) ([]domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": identityID},
		options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer cur.Close(ctx)

	lines := make([]domain.CartLine, 0)
	for cur.Next(ctx) {
		var doc cartDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode cart line: %w", err)
		}
		if err := doc.CartLine.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, doc.CartLine)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

func (r *CartRepository) Upsert(ctx context.Context, line domain.CartLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	key := cartKey(line.IdentityID, line.ID)
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": key},
		cartDoc{Key: key, CartLine: line},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

// Delete removes one line. A missing line is not an error.
func (r *CartRepository) Delete(ctx context.Context, identityID, lineID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": cartKey(identityID, lineID)}); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the cart collection.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "added_at", Value: 1}}},
	})
	return err
}
