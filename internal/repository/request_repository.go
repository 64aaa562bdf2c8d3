package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// RequestFilter captures listing parameters. Nil fields are not applied.
type RequestFilter struct {
	Status       *domain.RequestStatus
	AssignedToID *int64
}

// RequestUpdate describes the fields a conditional update writes.
// AssignedToID is applied only when non-nil; the existing value is kept
// otherwise.
type RequestUpdate struct {
	Status       domain.RequestStatus
	AssignedToID *int64
}

// RequestRepository encapsulates request persistence.
//
// UpdateStatusIf is the race-safety primitive: it applies the update only
// while the row's status still equals expected, evaluated atomically inside
// a transaction, and reports how many rows matched. Concurrent callers
// targeting the same id are serialized by row-level locking, so at most one
// caller observes affected == 1 per pre-state.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	UpdateStatusIf(ctx context.Context, id int64, expected domain.RequestStatus, update RequestUpdate) (int64, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository returns a Postgres-backed implementation.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (client_name, phone, address, problem_text, status, assigned_to_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.ClientName,
		request.Phone,
		request.Address,
		request.ProblemText,
		request.Status,
		request.AssignedToID,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	const query = `
        SELECT id, client_name, phone, address, problem_text, status, assigned_to_id, created_at, updated_at
        FROM requests WHERE id=$1`
	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.ClientName,
		&request.Phone,
		&request.Address,
		&request.ProblemText,
		&request.Status,
		&request.AssignedToID,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	base := `SELECT id, client_name, phone, address, problem_text, status, assigned_to_id, created_at, updated_at
             FROM requests`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id DESC`,
		base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateStatusIf collapses check-and-write into one statement so two callers
// racing on the same pre-state can never both win: Postgres takes a row lock
// on the matched row, the loser re-evaluates the WHERE after the winner
// commits and matches zero rows.
func (r *requestRepository) UpdateStatusIf(ctx context.Context, id int64, expected domain.RequestStatus, update RequestUpdate) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE requests
        SET status=$1, assigned_to_id=COALESCE($2, assigned_to_id), updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := tx.Exec(ctx, query, update.Status, update.AssignedToID, id, expected)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var request domain.Request
		if err := rows.Scan(
			&request.ID,
			&request.ClientName,
			&request.Phone,
			&request.Address,
			&request.ProblemText,
			&request.Status,
			&request.AssignedToID,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
