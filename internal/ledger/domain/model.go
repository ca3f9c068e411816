package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code a project budgets in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// ProjectType is the kind of creative work a project tracks.
type ProjectType string

const (
	ProjectTypeMusic ProjectType = "Music"
	ProjectTypeFilm  ProjectType = "Film"
)

// Department groups expenses by production area.
type Department string

const (
	DepartmentStudio   Department = "Studio"
	DepartmentCamera   Department = "Camera"
	DepartmentLighting Department = "Lighting"
	DepartmentAudio    Department = "Audio"
	DepartmentEditing  Department = "Editing"
	DepartmentTravel   Department = "Travel"
	DepartmentProps    Department = "Props"
	DepartmentOther    Department = "Other"
)

// AllDepartments is the filter sentinel meaning "no department restriction".
const AllDepartments = "all"

// Currencies lists the accepted project currencies in display order.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP}

// ProjectTypes lists the accepted project types in display order.
var ProjectTypes = []ProjectType{ProjectTypeMusic, ProjectTypeFilm}

// Departments lists the accepted expense departments in display order.
var Departments = []Department{
	DepartmentStudio,
	DepartmentCamera,
	DepartmentLighting,
	DepartmentAudio,
	DepartmentEditing,
	DepartmentTravel,
	DepartmentProps,
	DepartmentOther,
}

// Project is a creative project owned by exactly one user.
// It is the canonical in-memory shape; the store's row shape lives in the mapper.
type Project struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	BudgetCeiling decimal.Decimal `json:"budgetCeiling"`
	Currency      Currency        `json:"currency"`
	ProjectType   ProjectType     `json:"projectType"`
	StartDate     civil.Date      `json:"startDate"`
	EndDate       civil.Date      `json:"endDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Mini returns the denormalized view embedded in expenses.
func (p Project) Mini() *ProjectMini {
	return &ProjectMini{ID: p.ID, Name: p.Name, Currency: p.Currency}
}

// ProjectMini is the partial project carried on each expense for display.
type ProjectMini struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Currency Currency `json:"currency"`
}

// Expense is a single spend recorded against a project.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ProjectID   string          `json:"projectId"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Department  Department      `json:"department"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	ExpenseDate civil.Date      `json:"expenseDate"`
	Vendor      *string         `json:"vendor"`
	ReceiptURL  *string         `json:"receiptUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Project     *ProjectMini    `json:"project"`
}
