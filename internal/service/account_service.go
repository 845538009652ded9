package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"user_directory/internal/logger"
	"user_directory/internal/model"
	"user_directory/internal/repository"
)

// AccountService manages the account lifecycle after registration
type AccountService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	// SetStatus moves an account to status. Applying the current status again is a
	// successful no-op; changed reports whether the row actually moved.
	SetStatus(ctx context.Context, id int, status string) (user *model.User, changed bool, err error)
	// BulkSetStatus applies SetStatus to each id independently. Unknown ids and per-id
	// store failures are reported in the result and never abort the remaining ids.
	BulkSetStatus(ctx context.Context, ids []int, status string) (*model.BulkResult, error)
	Delete(ctx context.Context, id int) (*model.UserSummary, error)
	// BulkDelete removes every listed account in one store operation. Unknown ids are
	// reported as not_found.
	BulkDelete(ctx context.Context, ids []int) (*model.BulkResult, error)
}

type accountService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(repo repository.UserRepository, log *slog.Logger) AccountService {
	return &accountService{repo: repo, logger: log.With(slog.String("component", "account_service"))}
}

func (s *accountService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %w", ErrStoreFailure, err)
	}
	return users, nil
}

func (s *accountService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrStoreFailure, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *accountService) SetStatus(ctx context.Context, id int, status string) (*model.User, bool, error) {
	target, err := model.ParseStatus(status)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.setStatus(ctx, id, target)
}

func (s *accountService) setStatus(ctx context.Context, id int, target model.Status) (*model.User, bool, error) {
	user, previous, err := s.repo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to update status: %w", ErrStoreFailure, err)
	}
	if user == nil {
		return nil, false, ErrNotFound
	}

	changed := previous != target
	if changed {
		s.logger.Info("user status changed",
			slog.Int("user_id", id),
			slog.String("from", string(previous)),
			slog.String("to", string(target)),
		)
	}
	return user, changed, nil
}

func (s *accountService) BulkSetStatus(ctx context.Context, ids []int, status string) (*model.BulkResult, error) {
	target, err := model.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids cannot be empty", ErrValidation)
	}

	result := &model.BulkResult{Results: []model.BulkItemResult{}}
	for _, id := range model.UniqueIDs(ids) {
		_, changed, err := s.setStatus(ctx, id, target)
		switch {
		case err == nil && changed:
			result.Add(id, model.OutcomeUpdated)
		case err == nil:
			result.Add(id, model.OutcomeUnchanged)
		case errors.Is(err, ErrNotFound):
			result.Add(id, model.OutcomeNotFound)
		default:
			s.logger.Warn("bulk status change failed for user", slog.Int("user_id", id), logger.Err(err))
			result.Add(id, model.OutcomeFailed)
		}
	}
	return result, nil
}

func (s *accountService) Delete(ctx context.Context, id int) (*model.UserSummary, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to delete user: %w", ErrStoreFailure, err)
	}
	if removed == nil {
		return nil, ErrNotFound
	}
	s.logger.Info("user deleted", slog.Int("user_id", id))
	return removed, nil
}

func (s *accountService) BulkDelete(ctx context.Context, ids []int) (*model.BulkResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids cannot be empty", ErrValidation)
	}

	unique := model.UniqueIDs(ids)
	removed, err := s.repo.DeleteMany(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to delete users: %w", ErrStoreFailure, err)
	}

	gone := make(map[int]struct{}, len(removed))
	for _, r := range removed {
		gone[r.ID] = struct{}{}
	}

	result := &model.BulkResult{Results: make([]model.BulkItemResult, 0, len(unique))}
	for _, id := range unique {
		if _, ok := gone[id]; ok {
			result.Add(id, model.OutcomeDeleted)
		} else {
			result.Add(id, model.OutcomeNotFound)
		}
	}
	s.logger.Info("users deleted in bulk", slog.Int("requested", len(unique)), slog.Int("deleted", result.Affected))
	return result, nil
}
