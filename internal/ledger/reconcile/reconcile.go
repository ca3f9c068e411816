// Package reconcile decides whether a freshly created expense can be merged into the list
// currently on screen or whether the list must be fetched again.
package reconcile

import (
	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

// Filters is the filter state the current list was loaded under.
type Filters struct {
	ProjectID  string
	Department string
	// Project is the selected project, used to backfill the mini view on new rows.
	Project *domain.ProjectMini
}

// Result is either a merged list or a reload signal.
type Result struct {
	Rows   []domain.Expense
	Reload bool
}

// Reconcile prepends created to current when it is visible under filters. It never modifies
// current. A nil created record always asks for a reload.
func Reconcile(created *domain.Expense, filters Filters, current []domain.Expense) Result {
	if created == nil || !Matches(*created, filters) {
		return Result{Reload: true}
	}

	row := *created
	if row.Project == nil && filters.Project != nil {
		mini := *filters.Project
		row.Project = &mini
	}

	rows := make([]domain.Expense, 0, len(current)+1)
	rows = append(rows, row)
	rows = append(rows, current...)
	return Result{Rows: rows}
}

// Matches reports whether e belongs in a list loaded under filters. It mirrors the gateway's
// list filter: same project, and department "all" (or unset) or equal.
func Matches(e domain.Expense, filters Filters) bool {
	if filters.ProjectID == "" || e.ProjectID != filters.ProjectID {
		return false
	}
	switch filters.Department {
	case "", domain.AllDepartments:
		return true
	}
	return string(e.Department) == filters.Department
}
