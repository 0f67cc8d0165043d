package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// schema holds both principal kinds in one table; the UNIQUE (kind, email)
// constraint is what makes concurrent same-email inserts resolve to exactly
// one winner.
const schema = `
CREATE TABLE IF NOT EXISTS principals (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	kind            TEXT NOT NULL,
	email           TEXT NOT NULL,
	full_name       TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	role            TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (kind, email)
)`

// PostgreSQL error codes surfaced as domain errors.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// PrincipalRepository is the relational backend of the principal storage
// contract.
type PrincipalRepository struct {
	pool *pgxpool.Pool
}

func NewPrincipalRepository(pool *pgxpool.Pool) *PrincipalRepository {
	return &PrincipalRepository{pool: pool}
}

// EnsureSchema creates the principals table and its unique constraint.
func (r *PrincipalRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure principals schema: %w", err)
	}
	return nil
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Principal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, hashed_password, role, created_at
		 FROM principals WHERE kind = $1 AND email = $2`,
		string(kind), normalizeEmail(email))

	p := domain.Principal{Kind: kind}
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.HashedPassword, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, storeError("find principal", err)
	}
	return &p, nil
}

func (r *PrincipalRepository) Insert(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	created := *p
	created.Email = normalizeEmail(p.Email)

	err := r.pool.QueryRow(ctx,
		`INSERT INTO principals (kind, email, full_name, hashed_password, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		string(p.Kind), created.Email, p.FullName, p.HashedPassword, string(p.Role), p.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, storeError("insert principal", err)
	}
	return &created, nil
}

func (r *PrincipalRepository) ListAll(ctx context.Context, kind domain.PrincipalKind) ([]domain.Principal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, full_name, hashed_password, role, created_at
		 FROM principals WHERE kind = $1 ORDER BY created_at`,
		string(kind))
	if err != nil {
		return nil, storeError("list principals", err)
	}
	defer rows.Close()

	var out []domain.Principal
	for rows.Next() {
		p := domain.Principal{Kind: kind}
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.HashedPassword, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan principal: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list principals", err)
	}
	return out, nil
}

func (r *PrincipalRepository) DeleteByID(ctx context.Context, kind domain.PrincipalKind, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM principals WHERE kind = $1 AND id = $2`,
		string(kind), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			// Not a UUID at all; treat the same as an unknown id.
			return domain.ErrPrincipalNotFound
		}
		return storeError("delete principal", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// storeError classifies a driver error: connectivity-class failures (safe to
// retry before any work was done, timeouts, network errors) carry
// domain.ErrStoreUnavailable so the API layer reports them as transient;
// everything else wraps as-is.
func storeError(op string, err error) error {
	if transientErr(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func transientErr(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
