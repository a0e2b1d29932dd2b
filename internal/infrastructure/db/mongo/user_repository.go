package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/ports"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoRole struct {
	ID   string `bson:"id"`
	Key  string `bson:"key"`
	Name string `bson:"name"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name,omitempty"`
	Username     string             `bson:"username"`
	PhoneNumber  string             `bson:"phone_number"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []mongoRole        `bson:"roles"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) (mongoUser, error) {
	doc := mongoUser{
		Name:         u.Name,
		Username:     u.Username,
		PhoneNumber:  u.PhoneNumber,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        make([]mongoRole, 0, len(u.Roles)),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	for _, r := range u.Roles {
		doc.Roles = append(doc.Roles, mongoRole{ID: r.ID, Key: string(r.Key), Name: r.Name})
	}
	if u.ID != "" {
		oid, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return doc, fmt.Errorf("invalid user id %q: %w", u.ID, err)
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d mongoUser) toDomain() *domain.User {
	user := &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Username:     d.Username,
		PhoneNumber:  d.PhoneNumber,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Roles:        make([]domain.Role, 0, len(d.Roles)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, r := range d.Roles {
		user.Roles = append(user.Roles, domain.Role{ID: r.ID, Key: domain.RoleKey(r.Key), Name: r.Name})
	}
	return user
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByPhoneNumber(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) ExistsByUsernameOrPhone(ctx context.Context, username, phone string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"phone_number": phone},
	}}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// List pages users newest-first, optionally filtered by role key or a
// case-insensitive name/username substring.
func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["roles.key"] = string(f.Role)
	}
	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"username": re},
		}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc mongoUser
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	return users, total, cursor.Err()
}

// Save inserts the user when it has no id yet and replaces the stored
// document otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc, err := toMongoUser(user)
	if err != nil {
		return nil, err
	}

	if user.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
		return doc.toDomain(), nil
	}

	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique login-handle indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roles.key", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
