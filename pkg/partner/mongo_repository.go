package partner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// partnerDocument is the stored shape of a VerifiedPartner
type partnerDocument struct {
	DocID      string    `bson:"_id"`
	Email      string    `bson:"email"`
	Verified   bool      `bson:"verified"`
	VerifiedAt time.Time `bson:"verified_at"`
}

// MongoPartnerRepository implements PartnerRepository on a MongoDB collection
// with a unique index on email.
type MongoPartnerRepository struct {
	collection *mongo.Collection
}

// NewMongoPartnerRepository ensures the unique email index exists
func NewMongoPartnerRepository(ctx context.Context, collection *mongo.Collection) (*MongoPartnerRepository, error) {
	if collection == nil {
		return nil, fmt.Errorf("mongo collection cannot be nil")
	}

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create email index: %w", err)
	}

	return &MongoPartnerRepository{collection: collection}, nil
}

// ConnectMongo opens a client and returns the named collection
func ConnectMongo(ctx context.Context, uri, database, collection string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	slog.Info("Connected to MongoDB", "database", database, "collection", collection)
	return client, client.Database(database).Collection(collection), nil
}

// MarkVerified upserts with $setOnInsert so an existing record is never modified
func (r *MongoPartnerRepository) MarkVerified(ctx context.Context, email string) (VerifiedPartner, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return VerifiedPartner{}, ErrInvalidEmail
	}

	p := newVerifiedPartner(key)
	doc := partnerDocument{DocID: p.ID.String()}
	if err := copier.Copy(&doc, &p); err != nil {
		return VerifiedPartner{}, err
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"email": key},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	// Two concurrent upserts can both miss and one then fails on the unique index
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return VerifiedPartner{}, fmt.Errorf("failed to mark partner verified: %w", err)
	}

	return r.GetPartner(ctx, key)
}

func (r *MongoPartnerRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"email": NormalizeEmail(email), "verified": true},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check partner: %w", err)
	}
	return n > 0, nil
}

func (r *MongoPartnerRepository) GetPartner(ctx context.Context, email string) (VerifiedPartner, error) {
	var doc partnerDocument
	err := r.collection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return VerifiedPartner{}, ErrPartnerNotFound
		}
		return VerifiedPartner{}, fmt.Errorf("failed to get partner: %w", err)
	}
	return doc.toPartner()
}

func (d partnerDocument) toPartner() (VerifiedPartner, error) {
	var p VerifiedPartner
	if err := copier.Copy(&p, &d); err != nil {
		return VerifiedPartner{}, err
	}
	id, err := uuid.Parse(d.DocID)
	if err != nil {
		return VerifiedPartner{}, fmt.Errorf("invalid partner id %q: %w", d.DocID, err)
	}
	p.ID = id
	p.VerifiedAt = p.VerifiedAt.UTC()
	return p, nil
}
