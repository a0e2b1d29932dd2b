package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
)

const tokensCollection = "validation_tokens"

type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

type mongoToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Token     string             `bson:"token"`
	Valid     bool               `bson:"valid"`
	Reason    string             `bson:"reason,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d mongoToken) toDomain() *domain.ValidationToken {
	return &domain.ValidationToken{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Token:     d.Token,
		Valid:     d.Valid,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}
}

func (r *TokenRepository) Insert(ctx context.Context, token *domain.ValidationToken) (*domain.ValidationToken, error) {
	doc := mongoToken{
		UserID:    token.UserID,
		Token:     token.Token,
		Valid:     token.Valid,
		Reason:    token.Reason,
		CreatedAt: token.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindLatestByToken resolves duplicate token strings by descending id: the
// most recently inserted record wins (ObjectIDs sort by creation).
func (r *TokenRepository) FindLatestByToken(ctx context.Context, token string) (*domain.ValidationToken, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var doc mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"token": token}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TokenRepository) Update(ctx context.Context, token *domain.ValidationToken) error {
	oid, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		return fmt.Errorf("invalid token id %q: %w", token.ID, err)
	}
	update := bson.M{"$set": bson.M{
		"valid":  token.Valid,
		"reason": token.Reason,
	}}
	if _, err := r.coll.UpdateByID(ctx, oid, update); err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid token id %q: %w", id, err)
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// CountByUserCreatedBetween counts tokens a user was issued in the inclusive
// [from, to] window, backing the daily issuance cap.
func (r *TokenRepository) CountByUserCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lte": to},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates lookup and counting indexes. The token index is
// deliberately non-unique: duplicate strings are tolerated and resolved
// latest-first.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
