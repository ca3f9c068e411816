package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
	"github.com/creator-copilot/ledger-backend/internal/ledger/query"
	"github.com/creator-copilot/ledger-backend/internal/ledger/validation"
)

// Store is the remote data gateway as seen by the service.
type Store interface {
	CreateProject(ctx context.Context, fields domain.Project, userID string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string) ([]domain.Project, error)
	GetProject(ctx context.Context, id, userID string) (*domain.Project, error)
	CreateExpense(ctx context.Context, fields domain.Expense, userID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID, projectID, department string) ([]domain.Expense, error)
}

// LedgerService validates raw input and hands typed records to the store.
type LedgerService struct {
	store Store
	log   *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store Store, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{store: store, log: log}
}

// CreateProject validates raw and creates the project for userID.
// Validation failures never reach the store.
func (s *LedgerService) CreateProject(ctx context.Context, userID string, raw map[string]string) (*domain.Project, error) {
	fields, err := validation.ValidateProject(raw)
	if err != nil {
		return nil, err
	}
	p, err := s.store.CreateProject(ctx, *fields, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.String("user_id", userID), zap.String("project_id", p.ID))
	return p, nil
}

// ListProjects returns the user's projects, newest first.
func (s *LedgerService) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.store.ListProjects(ctx, userID)
}

// GetProject returns nil, nil when the project does not exist for userID.
func (s *LedgerService) GetProject(ctx context.Context, id, userID string) (*domain.Project, error) {
	return s.store.GetProject(ctx, id, userID)
}

// CreateExpense validates raw and records the expense for userID.
func (s *LedgerService) CreateExpense(ctx context.Context, userID string, raw map[string]string) (*domain.Expense, error) {
	fields, err := validation.ValidateExpense(raw)
	if err != nil {
		return nil, err
	}
	e, err := s.store.CreateExpense(ctx, *fields, userID)
	if err != nil {
		return nil, err
	}
	if e != nil {
		s.log.Info("expense created",
			zap.String("user_id", userID),
			zap.String("project_id", e.ProjectID),
			zap.String("expense_id", e.ID),
		)
	}
	return e, nil
}

// ListExpenses loads a project's expenses under the department filter and applies search.
func (s *LedgerService) ListExpenses(ctx context.Context, userID, projectID, department, search string) ([]domain.Expense, error) {
	rows, err := s.store.ListExpenses(ctx, userID, projectID, department)
	if err != nil {
		return nil, err
	}
	return query.VisibleRows(rows, search), nil
}
