package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
	"github.com/creator-copilot/ledger-backend/internal/ledger/query"
	"github.com/creator-copilot/ledger-backend/internal/ledger/reconcile"
)

// ExpenseView holds the expense list for one user under the current project and department
// filters. Every filter change bumps a generation; a list response that comes back for an
// older generation is dropped.
type ExpenseView struct {
	svc    *LedgerService
	userID string

	mu      sync.Mutex
	gen     uint64
	filters reconcile.Filters
	search  string
	rows    []domain.Expense
}

// NewExpenseView starts an empty view for userID with department "all".
func (s *LedgerService) NewExpenseView(userID string) *ExpenseView {
	return &ExpenseView{
		svc:     s,
		userID:  userID,
		filters: reconcile.Filters{Department: domain.AllDepartments},
		rows:    []domain.Expense{},
	}
}

// SelectProject switches the view to project and reloads. A nil project clears the list.
func (v *ExpenseView) SelectProject(ctx context.Context, project *domain.ProjectMini) (bool, error) {
	v.mu.Lock()
	v.gen++
	if project == nil {
		v.filters.ProjectID = ""
		v.filters.Project = nil
	} else {
		mini := *project
		v.filters.ProjectID = mini.ID
		v.filters.Project = &mini
	}
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// SelectDepartment narrows the view to department ("all" for every department) and reloads.
func (v *ExpenseView) SelectDepartment(ctx context.Context, department string) (bool, error) {
	if department == "" {
		department = domain.AllDepartments
	}

	v.mu.Lock()
	v.gen++
	v.filters.Department = department
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// SetSearch changes the client-side search text. It never touches the store.
func (v *ExpenseView) SetSearch(search string) {
	v.mu.Lock()
	v.search = search
	v.mu.Unlock()
}

// Filters returns the filter state the rows were loaded under.
func (v *ExpenseView) Filters() reconcile.Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// Rows returns a copy of the loaded rows, before search.
func (v *ExpenseView) Rows() []domain.Expense {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Expense(nil), v.rows...)
}

// Visible returns the loaded rows narrowed by the search text.
func (v *ExpenseView) Visible() []domain.Expense {
	v.mu.Lock()
	rows := append([]domain.Expense(nil), v.rows...)
	search := v.search
	v.mu.Unlock()

	return query.VisibleRows(rows, search)
}

// Refresh reloads the list under the current filters. It reports false without error when the
// filters changed while the request was in flight and the response was dropped. On error the
// previous rows are kept.
func (v *ExpenseView) Refresh(ctx context.Context) (bool, error) {
	v.mu.Lock()
	gen := v.gen
	f := v.filters
	v.mu.Unlock()

	rows, err := v.svc.store.ListExpenses(ctx, v.userID, f.ProjectID, f.Department)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.svc.log.Debug("dropping stale expense list",
			zap.String("user_id", v.userID),
			zap.Uint64("generation", gen),
			zap.Uint64("current", v.gen),
		)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	v.rows = rows
	return true, nil
}

// Add validates and creates an expense, then merges it into the list or reloads it. A non-nil
// expense with a non-nil error means the write succeeded but the reload failed.
func (v *ExpenseView) Add(ctx context.Context, raw map[string]string) (*domain.Expense, error) {
	created, err := v.svc.CreateExpense(ctx, v.userID, raw)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	res := reconcile.Reconcile(created, v.filters, v.rows)
	if !res.Reload {
		v.rows = res.Rows
		row := res.Rows[0]
		v.mu.Unlock()
		return &row, nil
	}
	v.mu.Unlock()

	if _, err := v.Refresh(ctx); err != nil {
		return created, fmt.Errorf("failed to reload expenses: %w", err)
	}
	return created, nil
}
