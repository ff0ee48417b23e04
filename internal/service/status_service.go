package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/mohamedEMHA/scarmo/internal/repository"
)

// MaxStatusChecks caps ListStatusChecks. There is no pagination past it.
const MaxStatusChecks = 1000

type StatusService struct {
	repo   repository.StatusRepository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewStatusService(repo repository.StatusRepository, logger *slog.Logger) *StatusService {
	return &StatusService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *StatusService) CreateStatusCheck(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, domain.NewValidationError("client_name", "field required")
	}

	check := &domain.StatusCheck{
		ID:         s.newID(),
		ClientName: clientName,
		// Millisecond precision so the stored value reads back identically.
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Insert(ctx, check); err != nil {
		s.logger.ErrorContext(ctx, "failed to store status check", "error", err)
		return nil, &domain.StorageError{Op: "insert status check", Err: err}
	}
	return check, nil
}

func (s *StatusService) ListStatusChecks(ctx context.Context) ([]domain.StatusCheck, error) {
	checks, err := s.repo.List(ctx, MaxStatusChecks)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list status checks", "error", err)
		return nil, &domain.StorageError{Op: "list status checks", Err: err}
	}
	return checks, nil
}
