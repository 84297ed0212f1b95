package repository

import (
	"context"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/repository/entity"
	"qrcode-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements SessionStorage using MongoDB
type MongoSessionRepository struct {
	sessionsCollection *mongo.Collection
}

var _ ports.SessionStorage = (*MongoSessionRepository)(nil)

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{
		sessionsCollection: db.Collection("sessions"),
	}
}

// EnsureIndexes creates the unique session id index and the shop lookup index
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.sessionsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shopifyId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "shop", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	})
	if err != nil {
		return domain.NewStoreError("create session indexes", err)
	}
	return nil
}

// StoreSession saves or replaces a session by id
func (r *MongoSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	doc := entity.MongoSessionDocFromDomain(session)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shopifyId": session.ID}
	set := bson.M{
		"shop":     doc.Shop,
		"state":    doc.State,
		"isOnline": doc.IsOnline,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "scope", doc.Scope, doc.Scope == "")
	setOrUnset(set, unset, "expires", doc.Expires, doc.Expires == nil)
	setOrUnset(set, unset, "onlineAccessInfo", doc.OnlineAccessInfo, doc.OnlineAccessInfo == nil)
	setOrUnset(set, unset, "accessToken", doc.AccessToken, doc.AccessToken == "")
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	if _, err := r.sessionsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return domain.NewStoreError("store session", err)
	}
	return nil
}

func setOrUnset(set, unset bson.M, field string, value interface{}, empty bool) {
	if empty {
		unset[field] = ""
		return
	}
	set[field] = value
}

// LoadSession retrieves a session by id
func (r *MongoSessionRepository) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	var doc entity.MongoSessionDoc
	err := r.sessionsCollection.FindOne(ctx, bson.M{"shopifyId": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("load session", err)
	}
	return doc.ToDomain(), nil
}

// DeleteSession deletes a session by id
func (r *MongoSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.sessionsCollection.DeleteOne(ctx, bson.M{"shopifyId": id}); err != nil {
		return domain.NewStoreError("delete session", err)
	}
	return nil
}

// DeleteSessions deletes every session whose id is in ids
func (r *MongoSessionRepository) DeleteSessions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.sessionsCollection.DeleteMany(ctx, bson.M{"shopifyId": bson.M{"$in": ids}}); err != nil {
		return domain.NewStoreError("delete sessions", err)
	}
	return nil
}

// FindSessionsByShop retrieves every session of a shop, oldest first
func (r *MongoSessionRepository) FindSessionsByShop(ctx context.Context, shop string) ([]*domain.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.sessionsCollection.Find(ctx, bson.M{"shop": shop}, opts)
	if err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}
	defer cursor.Close(ctx)

	sessions := []*domain.Session{}
	for cursor.Next(ctx) {
		var doc entity.MongoSessionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.NewStoreError("decode session", err)
		}
		sessions = append(sessions, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}

	return sessions, nil
}
