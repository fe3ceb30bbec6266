package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// CollectionName is the collection holding account documents.
	CollectionName = "user"
	// EmailIndexName is the unique index that makes registration race-safe.
	EmailIndexName = "email_1"
)

type accountDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	FullName     string        `bson:"full_name"`
	Email        string        `bson:"email"`
	DateOfBirth  time.Time     `bson:"date_of_birth"`
	Gender       string        `bson:"gender"`
	PasswordHash string        `bson:"hashed_password"`
	IsAdmin      bool          `bson:"is_admin"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func (d *accountDocument) toModel() *models.Account {
	return &models.Account{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		FullName:     d.FullName,
		DateOfBirth:  d.DateOfBirth.UTC(),
		Gender:       models.Gender(d.Gender),
		PasswordHash: d.PasswordHash,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type MongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepository(db *mongo.Database, timeout time.Duration) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), timeout: timeout}
}

// EnsureIndexes creates the unique email index if it does not exist yet.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(EmailIndexName),
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Insert(ctx context.Context, a *models.Account) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := accountDocument{
		ID:           bson.NewObjectID(),
		FullName:     a.FullName,
		Email:        a.Email,
		DateOfBirth:  a.DateOfBirth,
		Gender:       string(a.Gender),
		PasswordHash: a.PasswordHash,
		IsAdmin:      a.IsAdmin,
		CreatedAt:    a.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", common.ErrDuplicateEmail
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return doc.ID.Hex(), nil
}

func (r *MongoRepository) UpdateFields(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	set := bson.D{}
	if dob, ok := patch.DateOfBirth.Get(); ok {
		set = append(set, bson.E{Key: "date_of_birth", Value: dob})
	}
	if gender, ok := patch.Gender.Get(); ok {
		set = append(set, bson.E{Key: "gender", Value: string(gender)})
	}
	if len(set) == 0 {
		return 0, common.ErrNothingToUpdate
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.MatchedCount, nil
}
