package persistence

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
)

// SeedDemoData loads demo accounts and sample requests for development
// environments. Skipped when accounts already exist.
func SeedDemoData(ctx context.Context, users repository.UserRepository, requests repository.RequestRepository, bcryptCost int, logger *zap.Logger) error {
	existing, err := users.ListByRole(ctx, domain.RoleDispatcher)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("demo data already present; skipping seed")
		return nil
	}

	hash, err := auth.HashPassword("123456", bcryptCost)
	if err != nil {
		return err
	}

	dispatcher := &domain.User{Name: "Dispatcher Anna", Email: "dispatcher@example.com", PasswordHash: hash, Role: domain.RoleDispatcher}
	master1 := &domain.User{Name: "Master Petr", Email: "petr@example.com", PasswordHash: hash, Role: domain.RoleMaster}
	master2 := &domain.User{Name: "Master Ivan", Email: "ivan@example.com", PasswordHash: hash, Role: domain.RoleMaster}
	for _, user := range []*domain.User{dispatcher, master1, master2} {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
	}

	samples := []domain.Request{
		{
			ClientName:  "Romashka LLC",
			Phone:       "+7 (999) 123-45-67",
			Address:     "Lenina st. 10, apt. 5",
			ProblemText: "Kitchen outlet not working",
			Status:      domain.RequestStatusNew,
		},
		{
			ClientName:   "IP Ivanov",
			Phone:        "+7 (999) 444-44-44",
			Address:      "Lenina st. 55, apt. 10",
			ProblemText:  "Leaking faucet in the bathroom",
			Status:       domain.RequestStatusAssigned,
			AssignedToID: &master1.ID,
		},
		{
			ClientName:   "Petrov S.I.",
			Phone:        "+7 (999) 555-55-55",
			Address:      "Lenina st. 60, apt. 3",
			ProblemText:  "Washing machine broke down",
			Status:       domain.RequestStatusInProgress,
			AssignedToID: &master1.ID,
		},
		{
			ClientName:   "Cafe Uyut",
			Phone:        "+7 (999) 333-33-33",
			Address:      "Lenina st. 26, apt. 7",
			ProblemText:  "No light in the main hall",
			Status:       domain.RequestStatusDone,
			AssignedToID: &master2.ID,
		},
		{
			ClientName:  "Sidorov A.A.",
			Phone:       "+7 (999) 222-22-22",
			Address:     "Lenina st. 31, apt. 90",
			ProblemText: "Replace the mixer tap",
			Status:      domain.RequestStatusCanceled,
		},
	}
	for i := range samples {
		if err := requests.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	logger.Info("demo data seeded",
		zap.Int("users", 3),
		zap.Int("requests", len(samples)),
	)
	return nil
}
