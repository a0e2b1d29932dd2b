package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

const rolesCollection = "roles"

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRoleDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Key  string             `bson:"key"`
	Name string             `bson:"name"`
}

func (r *RoleRepository) FindByKey(ctx context.Context, key domain.RoleKey) (*domain.Role, error) {
	var doc mongoRoleDoc
	if err := r.coll.FindOne(ctx, bson.M{"key": string(key)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("role %q not seeded", key)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID.Hex(), Key: domain.RoleKey(doc.Key), Name: doc.Name}, nil
}

// Seed upserts every canonical role record. Existing records are left
// untouched so role ids stay stable across restarts.
func (r *RoleRepository) Seed(ctx context.Context) error {
	for _, key := range domain.RoleKeys {
		filter := bson.M{"key": string(key)}
		update := bson.M{"$setOnInsert": bson.M{
			"key":  string(key),
			"name": key.DisplayName(),
		}}
		if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed role %s: %w", key, err)
		}
	}
	return nil
}
