package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// memoryRequestRepository keeps requests in process memory. Used when no
// Postgres DSN is configured and by the test suite. The mutex serializes
// conditional updates, so UpdateStatusIf keeps the same affected-count
// semantics as the Postgres implementation.
type memoryRequestRepository struct {
	mu       sync.Mutex
	seq      int64
	requests map[int64]domain.Request
}

// NewMemoryRequestRepository returns an in-memory RequestRepository.
func NewMemoryRequestRepository() RequestRepository {
	return &memoryRequestRepository{requests: make(map[int64]domain.Request)}
}

func (r *memoryRequestRepository) Create(ctx context.Context, request *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Now()
	request.ID = r.seq
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests[request.ID] = *request
	return nil
}

func (r *memoryRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &request, nil
}

func (r *memoryRequestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Request
	for _, request := range r.requests {
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if filter.AssignedToID != nil {
			if request.AssignedToID == nil || *request.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		result = append(result, request)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryRequestRepository) UpdateStatusIf(ctx context.Context, id int64, expected domain.RequestStatus, update RequestUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != expected {
		return 0, nil
	}
	request.Status = update.Status
	if update.AssignedToID != nil {
		assignee := *update.AssignedToID
		request.AssignedToID = &assignee
	}
	request.UpdatedAt = time.Now()
	r.requests[id] = request
	return 1, nil
}

// memoryUserRepository mirrors the Postgres user repository in memory.
type memoryUserRepository struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]domain.User
}

// NewMemoryUserRepository returns an in-memory UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[int64]domain.User)}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Now()
	user.ID = r.seq
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
