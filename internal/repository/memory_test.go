package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

func TestMemoryRequestRepositoryGetByID(t *testing.T) {
	repo := NewMemoryRequestRepository()
	ctx := context.Background()

	request := &domain.Request{ClientName: "Romashka LLC", Phone: "1", Address: "a", ProblemText: "p", Status: domain.RequestStatusNew}
	require.NoError(t, repo.Create(ctx, request))
	require.NotZero(t, request.ID)
	require.False(t, request.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ClientName, fetched.ClientName)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryRequestRepositoryListOrderingAndFilters(t *testing.T) {
	repo := NewMemoryRequestRepository()
	ctx := context.Background()
	masterID := int64(7)

	first := &domain.Request{ClientName: "a", Phone: "1", Address: "x", ProblemText: "p", Status: domain.RequestStatusNew}
	second := &domain.Request{ClientName: "b", Phone: "2", Address: "y", ProblemText: "q", Status: domain.RequestStatusAssigned, AssignedToID: &masterID}
	third := &domain.Request{ClientName: "c", Phone: "3", Address: "z", ProblemText: "r", Status: domain.RequestStatusNew}
	for _, request := range []*domain.Request{first, second, third} {
		require.NoError(t, repo.Create(ctx, request))
	}

	all, err := repo.ListWithFilter(ctx, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest created first")
	assert.Equal(t, first.ID, all[2].ID)

	status := domain.RequestStatusNew
	news, err := repo.ListWithFilter(ctx, RequestFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, news, 2)

	mine, err := repo.ListWithFilter(ctx, RequestFilter{AssignedToID: &masterID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)
}

func TestMemoryRequestRepositoryUpdateStatusIf(t *testing.T) {
	repo := NewMemoryRequestRepository()
	ctx := context.Background()
	masterID := int64(3)

	request := &domain.Request{ClientName: "a", Phone: "1", Address: "x", ProblemText: "p", Status: domain.RequestStatusNew}
	require.NoError(t, repo.Create(ctx, request))

	affected, err := repo.UpdateStatusIf(ctx, request.ID, domain.RequestStatusNew, RequestUpdate{
		Status:       domain.RequestStatusAssigned,
		AssignedToID: &masterID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	fetched, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAssigned, fetched.Status)
	require.NotNil(t, fetched.AssignedToID)
	assert.Equal(t, masterID, *fetched.AssignedToID)

	// precondition no longer holds
	affected, err = repo.UpdateStatusIf(ctx, request.ID, domain.RequestStatusNew, RequestUpdate{Status: domain.RequestStatusCanceled})
	require.NoError(t, err)
	assert.Zero(t, affected)

	// nil AssignedToID keeps the current assignee
	affected, err = repo.UpdateStatusIf(ctx, request.ID, domain.RequestStatusAssigned, RequestUpdate{Status: domain.RequestStatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	fetched, err = repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.AssignedToID)
	assert.Equal(t, masterID, *fetched.AssignedToID)

	// unknown id
	affected, err = repo.UpdateStatusIf(ctx, 999, domain.RequestStatusNew, RequestUpdate{Status: domain.RequestStatusCanceled})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestMemoryRequestRepositoryConditionalUpdateSerialized(t *testing.T) {
	const writers = 32

	repo := NewMemoryRequestRepository()
	ctx := context.Background()

	request := &domain.Request{ClientName: "a", Phone: "1", Address: "x", ProblemText: "p", Status: domain.RequestStatusAssigned}
	require.NoError(t, repo.Create(ctx, request))

	var wg sync.WaitGroup
	var winners int64
	var mu sync.Mutex
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.UpdateStatusIf(ctx, request.ID, domain.RequestStatusAssigned, RequestUpdate{Status: domain.RequestStatusInProgress})
			mu.Lock()
			if err == nil {
				winners += affected
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), winners)
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	dispatcher := &domain.User{Name: "Anna", Email: "anna@example.com", Role: domain.RoleDispatcher}
	master := &domain.User{Name: "Petr", Email: "Petr@Example.com", Role: domain.RoleMaster}
	require.NoError(t, repo.Create(ctx, dispatcher))
	require.NoError(t, repo.Create(ctx, master))

	byEmail, err := repo.GetByEmail(ctx, "petr@example.com")
	require.NoError(t, err)
	assert.Equal(t, master.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	masters, err := repo.ListByRole(ctx, domain.RoleMaster)
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, "Petr", masters[0].Name)
}
