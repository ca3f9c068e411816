// Package mapper is the single adapter between the store's row shape (snake_case columns,
// embedded relations) and the domain types. Nothing past this package looks at column names.
package mapper

import (
	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

// Record is a loosely typed row: a store row, a decoded JSON body, or a locally built record.
type Record map[string]any

// Store column names.
const (
	ColID            = "id"
	ColUserID        = "user_id"
	ColProjectID     = "project_id"
	ColName          = "name"
	ColDescription   = "description"
	ColBudgetCeiling = "budget_ceiling"
	ColCurrency      = "currency"
	ColProjectType   = "project_type"
	ColStartDate     = "start_date"
	ColEndDate       = "end_date"
	ColAmount        = "amount"
	ColDepartment    = "department"
	ColCategory      = "category"
	ColExpenseDate   = "expense_date"
	ColVendor        = "vendor"
	ColReceiptURL    = "receipt_url"
	ColCreatedAt     = "created_at"
	ColUpdatedAt     = "updated_at"

	// RelProjects is the embedded projects(id, name, currency) relation on expense rows.
	RelProjects = "projects"
)

// ProjectColumns is the full projects column list in schema order.
var ProjectColumns = []string{
	ColID, ColUserID, ColName, ColDescription, ColBudgetCeiling, ColCurrency,
	ColProjectType, ColStartDate, ColEndDate, ColCreatedAt,
}

// ProjectInsertColumns are the projects columns written on create; id is store-assigned.
var ProjectInsertColumns = ProjectColumns[1:]

// ExpenseColumns is the full expenses column list in schema order.
var ExpenseColumns = []string{
	ColID, ColUserID, ColProjectID, ColName, ColAmount, ColDepartment, ColCategory,
	ColDescription, ColExpenseDate, ColVendor, ColReceiptURL, ColCreatedAt, ColUpdatedAt,
}

// ExpenseInsertColumns are the expenses columns written on create; the store assigns id and stamps.
var ExpenseInsertColumns = []string{
	ColUserID, ColProjectID, ColName, ColAmount, ColDepartment, ColCategory,
	ColDescription, ColExpenseDate, ColVendor, ColReceiptURL,
}

// ProjectToDomain accepts either naming convention. A nil record maps to nil.
func ProjectToDomain(r Record) *domain.Project {
	if r == nil {
		return nil
	}
	return &domain.Project{
		ID:            asString(r.pick("id", ColID)),
		UserID:        asString(r.pick("userId", ColUserID)),
		Name:          asString(r.pick("name", ColName)),
		Description:   asString(r.pick("description", ColDescription)),
		BudgetCeiling: asDecimal(r.pick("budgetCeiling", ColBudgetCeiling)),
		Currency:      domain.Currency(asString(r.pick("currency", ColCurrency))),
		ProjectType:   domain.ProjectType(asString(r.pick("projectType", ColProjectType))),
		StartDate:     asDate(r.pick("startDate", ColStartDate)),
		EndDate:       asDate(r.pick("endDate", ColEndDate)),
		CreatedAt:     asTime(r.pick("createdAt", ColCreatedAt)),
	}
}

// ProjectToExternal renders p as a store row. Zero identifiers and stamps are left out so the
// store can assign them.
func ProjectToExternal(p domain.Project) Record {
	r := Record{
		ColUserID:        p.UserID,
		ColName:          p.Name,
		ColDescription:   p.Description,
		ColBudgetCeiling: p.BudgetCeiling.String(),
		ColCurrency:      string(p.Currency),
		ColProjectType:   string(p.ProjectType),
		ColStartDate:     dateString(p.StartDate),
		ColEndDate:       dateString(p.EndDate),
	}
	if p.ID != "" {
		r[ColID] = p.ID
	}
	if !p.CreatedAt.IsZero() {
		r[ColCreatedAt] = p.CreatedAt
	}
	return r
}

// ProjectMiniToDomain reads an embedded project relation in any of its shapes.
func ProjectMiniToDomain(v any) *domain.ProjectMini {
	switch m := v.(type) {
	case nil:
		return nil
	case *domain.ProjectMini:
		if m == nil {
			return nil
		}
		cp := *m
		return &cp
	case domain.ProjectMini:
		return &m
	}

	r := asRecord(v)
	if r == nil {
		return nil
	}
	return &domain.ProjectMini{
		ID:       asString(r.pick("id", ColID)),
		Name:     asString(r.pick("name", ColName)),
		Currency: domain.Currency(asString(r.pick("currency", ColCurrency))),
	}
}

// ExpenseToDomain accepts either naming convention and flattens the embedded projects relation
// into the mini view. A nil record maps to nil.
func ExpenseToDomain(r Record) *domain.Expense {
	if r == nil {
		return nil
	}
	return &domain.Expense{
		ID:          asString(r.pick("id", ColID)),
		UserID:      asString(r.pick("userId", ColUserID)),
		ProjectID:   asString(r.pick("projectId", ColProjectID)),
		Name:        asString(r.pick("name", ColName)),
		Amount:      asDecimal(r.pick("amount", ColAmount)),
		Department:  domain.Department(asString(r.pick("department", ColDepartment))),
		Category:    asOptionalString(r.pick("category", ColCategory)),
		Description: asOptionalString(r.pick("description", ColDescription)),
		ExpenseDate: asDate(r.pick("expenseDate", ColExpenseDate)),
		Vendor:      asOptionalString(r.pick("vendor", ColVendor)),
		ReceiptURL:  asOptionalString(r.pick("receiptUrl", ColReceiptURL)),
		CreatedAt:   asTime(r.pick("createdAt", ColCreatedAt)),
		UpdatedAt:   asTime(r.pick("updatedAt", ColUpdatedAt)),
		Project:     ProjectMiniToDomain(r.pick("project", RelProjects)),
	}
}

// ExpenseToExternal renders e as a store row with the project mini embedded under "projects".
func ExpenseToExternal(e domain.Expense) Record {
	r := Record{
		ColUserID:      e.UserID,
		ColProjectID:   e.ProjectID,
		ColName:        e.Name,
		ColAmount:      e.Amount.String(),
		ColDepartment:  string(e.Department),
		ColCategory:    optionalValue(e.Category),
		ColDescription: optionalValue(e.Description),
		ColExpenseDate: dateString(e.ExpenseDate),
		ColVendor:      optionalValue(e.Vendor),
		ColReceiptURL:  optionalValue(e.ReceiptURL),
	}
	if e.ID != "" {
		r[ColID] = e.ID
	}
	if !e.CreatedAt.IsZero() {
		r[ColCreatedAt] = e.CreatedAt
	}
	if !e.UpdatedAt.IsZero() {
		r[ColUpdatedAt] = e.UpdatedAt
	}
	if e.Project != nil {
		r[RelProjects] = Record{
			ColID:       e.Project.ID,
			ColName:     e.Project.Name,
			ColCurrency: string(e.Project.Currency),
		}
	}
	return r
}

// Values returns r's values for cols in order, as query arguments.
func (r Record) Values(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

// pick returns the first present, non-nil value among keys.
func (r Record) pick(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func optionalValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
