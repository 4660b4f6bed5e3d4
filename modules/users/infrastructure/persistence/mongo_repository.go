package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rai/user-management-api/modules/users/domain"
)

// EmailIndexName is the unique index that backs email uniqueness.
const EmailIndexName = "users_email_unique"

// userDocument is the stored shape of a user.
type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Age      int                `bson:"age"`
	IsActive bool               `bson:"is_active"`
}

func (d userDocument) toDomain() *domain.User {
	return domain.Reconstitute(domain.UserIDFromObjectID(d.ID), d.Name, d.Email, d.Age, d.IsActive)
}

// MongoRepository implements UserRepository on a MongoDB collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed user repository.
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

// Compile-time interface check.
var _ domain.UserRepository = (*MongoRepository)(nil)

// EnsureIndexes creates the unique email index if it doesn't exist yet.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(EmailIndexName),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Insert(ctx context.Context, draft domain.UserDraft) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "mongodb", "insert")
	defer func() { finishSpan(span, err) }()

	id := domain.NewUserID()
	_, err = r.collection.InsertOne(ctx, userDocument{
		ID:       id.ObjectID(),
		Name:     draft.Name,
		Email:    draft.Email,
		Age:      draft.Age,
		IsActive: draft.IsActive,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to insert user: %w", domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return draft.WithID(id), nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id domain.UserID) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "mongodb", "find_one")
	defer func() { finishSpan(span, err) }()

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": id.ObjectID()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) Find(ctx context.Context, criteria domain.Criteria) (_ []*domain.User, err error) {
	ctx, span := startSpan(ctx, "mongodb", "find")
	defer func() { finishSpan(span, err) }()

	cursor, err := r.collection.Find(ctx, buildFilter(criteria.Predicates), findOptions(criteria))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toDomain()
	}
	return users, nil
}

func (r *MongoRepository) Update(ctx context.Context, id domain.UserID, patch domain.UserPatch) (_ bool, err error) {
	ctx, span := startSpan(ctx, "mongodb", "update_one")
	defer func() { finishSpan(span, err) }()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id.ObjectID()},
		bson.M{"$set": bson.M(patch.Fields())},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("failed to update user: %w", domain.ErrDuplicateKey)
		}
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id domain.UserID) (_ bool, err error) {
	ctx, span := startSpan(ctx, "mongodb", "delete_one")
	defer func() { finishSpan(span, err) }()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.ObjectID()})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// bsonField maps a domain field name to its document key.
func bsonField(field string) string {
	if field == domain.FieldID {
		return "_id"
	}
	return field
}

// buildFilter renders predicates as a MongoDB filter document.
func buildFilter(predicates []domain.Predicate) bson.M {
	filter := bson.M{}
	for _, p := range predicates {
		field := bsonField(p.Field)

		if len(p.Conditions) == 1 && p.Conditions[0].Op == domain.OpEq {
			filter[field] = p.Conditions[0].Value
			continue
		}

		cond := bson.M{}
		for _, c := range p.Conditions {
			switch c.Op {
			case domain.OpEq:
				cond["$eq"] = c.Value
			case domain.OpGte:
				cond["$gte"] = c.Value
			case domain.OpLte:
				cond["$lte"] = c.Value
			case domain.OpContainsFold:
				// Search text is matched literally, not as a pattern.
				cond["$regex"] = regexp.QuoteMeta(fmt.Sprint(c.Value))
				cond["$options"] = "i"
			}
		}
		filter[field] = cond
	}
	return filter
}

func findOptions(criteria domain.Criteria) *options.FindOptions {
	sort := bson.D{}
	for _, key := range criteria.Sort {
		dir := 1
		if key.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: bsonField(key.Field), Value: dir})
	}
	return options.Find().
		SetSort(sort).
		SetSkip(int64(criteria.Skip)).
		SetLimit(int64(criteria.Take))
}
