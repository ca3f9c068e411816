package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
	"github.com/creator-copilot/ledger-backend/internal/ledger/mapper"
)

// Gateway is the remote data gateway for projects and expenses. Every operation is scoped to
// the user id passed by the caller; nothing is read from ambient request state.
type Gateway struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// NewGateway creates a gateway over db. A nil logger disables logging.
func NewGateway(db *sql.DB, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: db, log: log, now: time.Now}
}

var (
	projectSelectCols = strings.Join(mapper.ProjectColumns, ", ")
	expenseSelectCols = strings.Join(mapper.ExpenseColumns, ", ")

	insertProjectSQL = fmt.Sprintf(`
INSERT INTO projects (%s)
VALUES (%s)
RETURNING %s;
`, strings.Join(mapper.ProjectInsertColumns, ", "), placeholders(len(mapper.ProjectInsertColumns)), projectSelectCols)

	listProjectsSQL = fmt.Sprintf(`
SELECT %s
FROM projects
WHERE user_id = $1
ORDER BY created_at DESC;
`, projectSelectCols)

	getProjectSQL = fmt.Sprintf(`
SELECT %s
FROM projects
WHERE id = $1 AND user_id = $2
LIMIT 1;
`, projectSelectCols)

	projectMiniSQL = `
SELECT id, name, currency
FROM projects
WHERE id = $1 AND user_id = $2
LIMIT 1;
`

	insertExpenseSQL = fmt.Sprintf(`
INSERT INTO expenses (%s)
VALUES (%s)
RETURNING %s;
`, strings.Join(mapper.ExpenseInsertColumns, ", "), placeholders(len(mapper.ExpenseInsertColumns)), expenseSelectCols)

	listExpensesSQL = fmt.Sprintf(`
SELECT %s,
       json_build_object('id', p.id, 'name', p.name, 'currency', p.currency) AS %s
FROM expenses e
JOIN projects p ON p.id = e.project_id AND p.user_id = e.user_id
WHERE e.user_id = $1 AND e.project_id = $2%%s
ORDER BY e.expense_date DESC, e.created_at DESC;
`, prefixed("e", mapper.ExpenseColumns), mapper.RelProjects)
)

// CreateProject stamps ownership and creation time, writes the project and returns the stored row.
func (g *Gateway) CreateProject(ctx context.Context, fields domain.Project, userID string) (*domain.Project, error) {
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}

	fields.ID = ""
	fields.UserID = userID
	if fields.CreatedAt.IsZero() {
		fields.CreatedAt = g.now().UTC()
	}

	row := mapper.ProjectToExternal(fields)
	rows, err := g.db.QueryContext(ctx, insertProjectSQL, row.Values(mapper.ProjectInsertColumns)...)
	if err != nil {
		return nil, g.remote("create project", userID, err)
	}
	rec, err := scanOne(rows)
	if err != nil {
		return nil, g.remote("create project", userID, err)
	}
	return mapper.ProjectToDomain(rec), nil
}

// ListProjects returns the user's projects, newest first.
func (g *Gateway) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}

	rows, err := g.db.QueryContext(ctx, listProjectsSQL, userID)
	if err != nil {
		return nil, g.remote("list projects", userID, err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, g.remote("list projects", userID, err)
	}

	out := make([]domain.Project, 0, len(recs))
	for _, rec := range recs {
		if p := mapper.ProjectToDomain(rec); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// GetProject returns the project when it exists and belongs to userID, nil otherwise.
func (g *Gateway) GetProject(ctx context.Context, id, userID string) (*domain.Project, error) {
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}
	if !isUUID(id) {
		// no stored id can match
		return nil, nil
	}

	rows, err := g.db.QueryContext(ctx, getProjectSQL, id, userID)
	if err != nil {
		return nil, g.remote("get project", userID, err)
	}
	rec, err := scanOne(rows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, g.remote("get project", userID, err)
	}
	return mapper.ProjectToDomain(rec), nil
}

// CreateExpense writes an expense under a project the user owns. The returned expense carries
// the project mini view. A nil expense with a nil error means the store accepted the write but
// returned no row; callers should re-query.
func (g *Gateway) CreateExpense(ctx context.Context, fields domain.Expense, userID string) (*domain.Expense, error) {
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}
	if strings.TrimSpace(fields.ProjectID) == "" {
		return nil, domain.ErrProjectRequired
	}
	if !isUUID(fields.ProjectID) {
		return nil, domain.ErrProjectNotFound
	}

	fields.ID = ""
	fields.UserID = userID
	fields.CreatedAt = time.Time{}
	fields.UpdatedAt = time.Time{}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, g.remote("create expense", userID, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, projectMiniSQL, fields.ProjectID, userID)
	if err != nil {
		return nil, g.remote("create expense", userID, err)
	}
	mini, err := scanOne(rows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, g.remote("create expense", userID, err)
	}

	row := mapper.ExpenseToExternal(fields)
	rows, err = tx.QueryContext(ctx, insertExpenseSQL, row.Values(mapper.ExpenseInsertColumns)...)
	if err != nil {
		return nil, g.remote("create expense", userID, err)
	}
	rec, err := scanOne(rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, g.remote("create expense", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, g.remote("create expense", userID, err)
	}
	if rec == nil {
		g.log.Warn("expense insert returned no row", zap.String("user_id", userID), zap.String("project_id", fields.ProjectID))
		return nil, nil
	}

	rec[mapper.RelProjects] = mini
	return mapper.ExpenseToDomain(rec), nil
}

// ListExpenses returns a project's expenses, newest expense date first. Without a project id it
// returns an empty list and does not touch the store. department narrows the query unless it is
// empty or domain.AllDepartments.
func (g *Gateway) ListExpenses(ctx context.Context, userID, projectID, department string) ([]domain.Expense, error) {
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}
	if strings.TrimSpace(projectID) == "" || !isUUID(projectID) {
		return []domain.Expense{}, nil
	}

	args := []any{userID, projectID}
	filter := ""
	if department != "" && department != domain.AllDepartments {
		args = append(args, department)
		filter = " AND e.department = $3"
	}

	rows, err := g.db.QueryContext(ctx, fmt.Sprintf(listExpensesSQL, filter), args...)
	if err != nil {
		return nil, g.remote("list expenses", userID, err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, g.remote("list expenses", userID, err)
	}

	out := make([]domain.Expense, 0, len(recs))
	for _, rec := range recs {
		if e := mapper.ExpenseToDomain(rec); e != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

// remote wraps a store failure, keeping the driver error reachable.
func (g *Gateway) remote(op, userID string, err error) error {
	code := ""
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code = string(pqErr.Code)
	}
	g.log.Error("store call failed",
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.String("code", code),
		zap.Error(err),
	)
	return domain.NewRemoteError(op, code, err)
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}

func prefixed(alias string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}
