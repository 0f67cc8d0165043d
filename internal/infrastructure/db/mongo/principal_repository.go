package mongo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// Admins and users live in separate collections, mirroring the two principal
// kinds. Each collection carries its own unique index on email.
const (
	adminCollection = "admins"
	userCollection  = "users"
)

// PrincipalRepository is the document-store backend of the principal
// storage contract.
type PrincipalRepository struct {
	db *mongo.Database
}

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// EnsureIndexes creates the unique email index on both collections. The
// index, not application logic, is what closes the race between concurrent
// registrations with the same email.
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, name := range []string{adminCollection, userCollection} {
		if _, err := r.db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create unique email index on %s: %w", name, err)
		}
	}
	return nil
}

type principalDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	FullName       string             `bson:"full_name"`
	HashedPassword string             `bson:"hashed_password"`
	Role           string             `bson:"role"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (r *PrincipalRepository) coll(kind domain.PrincipalKind) *mongo.Collection {
	if kind == domain.KindAdmin {
		return r.db.Collection(adminCollection)
	}
	return r.db.Collection(userCollection)
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Principal, error) {
	var doc principalDoc
	err := r.coll(kind).FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, storeError("find principal", err)
	}
	return docToPrincipal(kind, doc), nil
}

func (r *PrincipalRepository) Insert(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	doc := principalDoc{
		Email:          normalizeEmail(p.Email),
		FullName:       p.FullName,
		HashedPassword: p.HashedPassword,
		Role:           string(p.Role),
		CreatedAt:      p.CreatedAt,
	}

	res, err := r.coll(p.Kind).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, storeError("insert principal", err)
	}

	created := *p
	created.Email = doc.Email
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PrincipalRepository) ListAll(ctx context.Context, kind domain.PrincipalKind) ([]domain.Principal, error) {
	cur, err := r.coll(kind).Find(ctx, bson.M{})
	if err != nil {
		return nil, storeError("list principals", err)
	}
	defer cur.Close(ctx)

	var out []domain.Principal
	for cur.Next(ctx) {
		var doc principalDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode principal: %w", err)
		}
		out = append(out, *docToPrincipal(kind, doc))
	}
	if err := cur.Err(); err != nil {
		return nil, storeError("list principals", err)
	}
	return out, nil
}

func (r *PrincipalRepository) DeleteByID(ctx context.Context, kind domain.PrincipalKind, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPrincipalNotFound
	}

	res, err := r.coll(kind).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeError("delete principal", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// storeError classifies a driver error: connectivity-class failures (server
// selection timeouts, network errors) carry domain.ErrStoreUnavailable so the
// API layer reports them as transient; everything else wraps as-is.
func storeError(op string, err error) error {
	if transientErr(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func transientErr(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func docToPrincipal(kind domain.PrincipalKind, doc principalDoc) *domain.Principal {
	return &domain.Principal{
		ID:             doc.ID.Hex(),
		Kind:           kind,
		Email:          doc.Email,
		FullName:       doc.FullName,
		HashedPassword: doc.HashedPassword,
		Role:           domain.Role(doc.Role),
		CreatedAt:      doc.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
