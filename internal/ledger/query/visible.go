// Package query derives the visible subset of a loaded expense list from free-text search.
// Department filtering happens in the store query, not here.
package query

import (
	"strings"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

// VisibleRows returns the rows whose searchable text contains search, case-insensitively.
// Blank search returns rows unchanged. Order is preserved.
func VisibleRows(rows []domain.Expense, search string) []domain.Expense {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return rows
	}

	out := make([]domain.Expense, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(haystack(row), needle) {
			out = append(out, row)
		}
	}
	return out
}

// haystack joins the searchable fields in a fixed order: name, vendor, description,
// department, category. Absent fields are skipped.
func haystack(e domain.Expense) string {
	parts := make([]string, 0, 5)
	parts = appendPresent(parts, e.Name)
	if e.Vendor != nil {
		parts = appendPresent(parts, *e.Vendor)
	}
	if e.Description != nil {
		parts = appendPresent(parts, *e.Description)
	}
	parts = appendPresent(parts, string(e.Department))
	if e.Category != nil {
		parts = appendPresent(parts, *e.Category)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func appendPresent(parts []string, s string) []string {
	if s == "" {
		return parts
	}
	return append(parts, s)
}
