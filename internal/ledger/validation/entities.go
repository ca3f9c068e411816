package validation

import (
	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

const (
	projectDescriptionLimit = "160"
	expenseNotesLimit       = "200"
)

// ProjectSchema accepts the create-project form.
var ProjectSchema = Schema{
	Entity: "project",
	Fields: []Field{
		{
			Name: "name", Kind: KindText, Required: true, Tag: "min=2,max=80",
			Messages: map[string]string{
				MsgRequired: "Project name must be at least 2 characters",
				"min":       "Project name must be at least 2 characters",
				"max":       "Project name cannot exceed 80 characters",
			},
		},
		{
			Name: "description", Kind: KindText, Required: true, Tag: "max=" + projectDescriptionLimit,
			Messages: map[string]string{
				MsgRequired: "Project description is required",
				"max":       "Description cannot exceed " + projectDescriptionLimit + " characters",
			},
		},
		{
			Name: "budgetCeiling", Kind: KindMoney, Required: true,
			Messages: map[string]string{
				MsgRequired: "Budget ceiling must be a number",
				MsgType:     "Budget ceiling must be a number",
				MsgPositive: "Budget ceiling must be greater than 0",
				MsgScale:    "Budget ceiling cannot have more than 2 decimal places",
				MsgTooLarge: "Budget ceiling cannot exceed 9,999,999,999.99",
			},
		},
		{
			Name: "projectType", Kind: KindEnum, Required: true, Tag: oneOf(domain.ProjectTypes),
			Messages: map[string]string{
				MsgRequired: "Project type is required",
				"oneof":     "Project type is required",
			},
		},
		{
			Name: "currency", Kind: KindEnum, Required: true, Tag: oneOf(domain.Currencies),
			Messages: map[string]string{
				MsgRequired: "Currency is required",
				"oneof":     "Currency is required",
			},
		},
		{
			Name: "startDate", Kind: KindDate, Required: true,
			Messages: map[string]string{
				MsgRequired: "Start date is required",
				MsgType:     "Start date must be a valid date",
			},
		},
		{
			Name: "endDate", Kind: KindDate, Required: true,
			Messages: map[string]string{
				MsgRequired: "Estimated end date is required",
				MsgType:     "Estimated end date must be a valid date",
			},
		},
	},
	Rules: []Rule{endNotBeforeStart},
}

// endNotBeforeStart reports an ordering failure on endDate, never on startDate.
func endNotBeforeStart(v Values) (string, string) {
	start, okStart := v.Date("startDate")
	end, okEnd := v.Date("endDate")
	if !okStart || !okEnd {
		return "", ""
	}
	if end.Before(start) {
		return "endDate", "Estimated end date cannot be before start date"
	}
	return "", ""
}

// ExpenseSchema accepts the add-expense form.
var ExpenseSchema = Schema{
	Entity: "expense",
	Fields: []Field{
		{
			Name: "projectId", Kind: KindUUID, Required: true,
			Messages: map[string]string{
				MsgRequired: "Project is required",
				"uuid":      "Project is required",
			},
		},
		{
			Name: "name", Kind: KindText, Required: true, Tag: "min=2,max=120",
			Messages: map[string]string{
				MsgRequired: "Expense title must be at least 2 characters",
				"min":       "Expense title must be at least 2 characters",
				"max":       "Expense title cannot exceed 120 characters",
			},
		},
		{
			Name: "amount", Kind: KindMoney, Required: true,
			Messages: map[string]string{
				MsgRequired: "Amount must be a number",
				MsgType:     "Amount must be a number",
				MsgPositive: "Amount must be greater than 0",
				MsgScale:    "Amount cannot have more than 2 decimal places",
				MsgTooLarge: "Amount cannot exceed 9,999,999,999.99",
			},
		},
		{
			Name: "department", Kind: KindEnum, Required: true, Tag: oneOf(domain.Departments),
			Messages: map[string]string{
				MsgRequired: "Department is required",
				"oneof":     "Department is required",
			},
		},
		{
			Name: "category", Kind: KindText, Tag: "max=80",
			Messages: map[string]string{"max": "Category cannot exceed 80 characters"},
		},
		{
			Name: "vendor", Kind: KindText, Tag: "max=120",
			Messages: map[string]string{"max": "Vendor cannot exceed 120 characters"},
		},
		{
			Name: "receiptUrl", Kind: KindURL,
			Messages: map[string]string{"http_url": "Receipt URL must be a valid URL"},
		},
		{
			Name: "description", Kind: KindText, Tag: "max=" + expenseNotesLimit,
			Messages: map[string]string{"max": "Notes cannot exceed " + expenseNotesLimit + " characters"},
		},
		{
			Name: "expenseDate", Kind: KindDate, Required: true,
			Messages: map[string]string{
				MsgRequired: "Expense date is required",
				MsgType:     "Expense date must be a valid date",
			},
		},
	},
}

// ValidateProject turns raw form values into a project ready for the gateway.
// Identity and ownership fields are left for the gateway to stamp.
func ValidateProject(raw map[string]string) (*domain.Project, error) {
	v, err := ProjectSchema.Validate(raw)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{}
	p.Name, _ = v.String("name")
	p.Description, _ = v.String("description")
	p.BudgetCeiling, _ = v.Decimal("budgetCeiling")
	ptype, _ := v.String("projectType")
	p.ProjectType = domain.ProjectType(ptype)
	currency, _ := v.String("currency")
	p.Currency = domain.Currency(currency)
	p.StartDate, _ = v.Date("startDate")
	p.EndDate, _ = v.Date("endDate")
	return p, nil
}

// ValidateExpense turns raw form values into an expense ready for the gateway.
func ValidateExpense(raw map[string]string) (*domain.Expense, error) {
	v, err := ExpenseSchema.Validate(raw)
	if err != nil {
		return nil, err
	}

	e := &domain.Expense{}
	e.ProjectID, _ = v.String("projectId")
	e.Name, _ = v.String("name")
	e.Amount, _ = v.Decimal("amount")
	dept, _ := v.String("department")
	e.Department = domain.Department(dept)
	e.Category = v.OptionalString("category")
	e.Vendor = v.OptionalString("vendor")
	e.ReceiptURL = v.OptionalString("receiptUrl")
	e.Description = v.OptionalString("description")
	e.ExpenseDate, _ = v.Date("expenseDate")
	return e, nil
}
