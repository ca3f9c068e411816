package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
	"github.com/creator-copilot/ledger-backend/internal/ledger/mapper"
)

const (
	testUser    = "3a3c9d1e-7b0f-4d7e-a6f1-0c2d5e8b9f10"
	testProject = "6f1c2f9e-8d7b-4b8e-9a43-2f4b8f0c9a11"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	g := NewGateway(db, nil)
	g.now = func() time.Time { return fixedNow }
	return g, mock
}

func setupExactGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGateway(db, nil), mock
}

func projectRows() *sqlmock.Rows {
	return sqlmock.NewRows(mapper.ProjectColumns)
}

func expenseRows(withMini bool) *sqlmock.Rows {
	cols := append([]string{}, mapper.ExpenseColumns...)
	if withMini {
		cols = append(cols, mapper.RelProjects)
	}
	return sqlmock.NewRows(cols)
}

func newProject() domain.Project {
	return domain.Project{
		Name:          "Debut EP",
		Description:   "Five tracks",
		BudgetCeiling: decimal.RequireFromString("12000"),
		Currency:      domain.CurrencyUSD,
		ProjectType:   domain.ProjectTypeMusic,
		StartDate:     civil.Date{Year: 2025, Month: 3, Day: 1},
		EndDate:       civil.Date{Year: 2025, Month: 6, Day: 30},
	}
}

func newExpense() domain.Expense {
	vendor := "B&H Photo"
	return domain.Expense{
		ProjectID:   testProject,
		Name:        "Lens rental",
		Amount:      decimal.RequireFromString("1245.5"),
		Department:  domain.DepartmentCamera,
		Vendor:      &vendor,
		ExpenseDate: civil.Date{Year: 2025, Month: 4, Day: 12},
	}
}

func TestGateway_RequiresUser(t *testing.T) {
	g, mock := setupGateway(t)
	ctx := context.Background()

	_, err := g.CreateProject(ctx, newProject(), "")
	assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)

	_, err = g.ListProjects(ctx, "")
	assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)

	_, err = g.GetProject(ctx, testProject, "")
	assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)

	_, err = g.CreateExpense(ctx, newExpense(), "")
	assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)

	_, err = g.ListExpenses(ctx, "", testProject, "all")
	assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_CreateProject(t *testing.T) {
	t.Run("stamps user and creation time", func(t *testing.T) {
		g, mock := setupGateway(t)

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(testUser, "Debut EP", "Five tracks", "12000", "USD", "Music",
				"2025-03-01", "2025-06-30", fixedNow).
			WillReturnRows(projectRows().AddRow(
				"p-1", testUser, "Debut EP", "Five tracks", []byte("12000.00"), "USD", "Music",
				time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
				fixedNow,
			))

		p, err := g.CreateProject(context.Background(), newProject(), testUser)
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ID)
		assert.Equal(t, testUser, p.UserID)
		assert.True(t, decimal.NewFromInt(12000).Equal(p.BudgetCeiling))
		assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 30}, p.EndDate)
		assert.Equal(t, fixedNow, p.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps a caller supplied creation time", func(t *testing.T) {
		g, mock := setupGateway(t)
		created := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
		fields := newProject()
		fields.CreatedAt = created

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(testUser, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), created).
			WillReturnRows(projectRows().AddRow(
				"p-2", testUser, "Debut EP", "Five tracks", "12000", "USD", "Music",
				"2025-03-01", "2025-06-30", created,
			))

		p, err := g.CreateProject(context.Background(), fields, testUser)
		require.NoError(t, err)
		assert.Equal(t, created, p.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure is wrapped with its code", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key"})

		_, err := g.CreateProject(context.Background(), newProject(), testUser)
		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, domain.CodeUniqueViolation, remote.Code())

		var pqErr *pq.Error
		assert.True(t, errors.As(err, &pqErr))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGateway_ListProjects(t *testing.T) {
	g, mock := setupGateway(t)

	mock.ExpectQuery(`SELECT .* FROM projects WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(testUser).
		WillReturnRows(projectRows().
			AddRow("p-2", testUser, "Film", "Short", "500", "EUR", "Film", "2025-02-01", "2025-02-28", fixedNow).
			AddRow("p-1", testUser, "EP", "Songs", "900", "USD", "Music", "2025-01-01", "2025-01-31", fixedNow.Add(-time.Hour)))

	items, err := g.ListProjects(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p-2", items[0].ID)
	assert.Equal(t, domain.CurrencyEUR, items[0].Currency)
	assert.Equal(t, "p-1", items[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_GetProject(t *testing.T) {
	t.Run("no matching row is a nil result", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1 AND user_id = \$2`).
			WithArgs(testProject, testUser).
			WillReturnRows(projectRows())

		p, err := g.GetProject(context.Background(), testProject, testUser)
		require.NoError(t, err)
		assert.Nil(t, p)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("id that cannot exist is a nil result", func(t *testing.T) {
		g, mock := setupGateway(t)

		p, err := g.GetProject(context.Background(), "missing-id", testUser)
		require.NoError(t, err)
		assert.Nil(t, p)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1 AND user_id = \$2`).
			WithArgs(testProject, testUser).
			WillReturnRows(projectRows().
				AddRow(testProject, testUser, "EP", "Songs", "900", "USD", "Music", "2025-01-01", "2025-01-31", fixedNow))

		p, err := g.GetProject(context.Background(), testProject, testUser)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "EP", p.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other failures propagate", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`SELECT .* FROM projects`).
			WillReturnError(sql.ErrConnDone)

		p, err := g.GetProject(context.Background(), testProject, testUser)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGateway_CreateExpense(t *testing.T) {
	t.Run("missing project fails before any query", func(t *testing.T) {
		g, mock := setupGateway(t)
		fields := newExpense()
		fields.ProjectID = "  "

		_, err := g.CreateExpense(context.Background(), fields, testUser)
		assert.ErrorIs(t, err, domain.ErrProjectRequired)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("project owned by someone else", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, name, currency FROM projects`).
			WithArgs(testProject, testUser).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "currency"}))
		mock.ExpectRollback()

		_, err := g.CreateExpense(context.Background(), newExpense(), testUser)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("writes and attaches the project mini", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, name, currency FROM projects`).
			WithArgs(testProject, testUser).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "currency"}).
				AddRow(testProject, "Debut EP", "USD"))
		mock.ExpectQuery(`INSERT INTO expenses`).
			WithArgs(testUser, testProject, "Lens rental", "1245.5", "Camera", nil, nil,
				"2025-04-12", "B&H Photo", nil).
			WillReturnRows(expenseRows(false).AddRow(
				"e-1", testUser, testProject, "Lens rental", []byte("1245.50"), "Camera", nil, nil,
				time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), "B&H Photo", nil, fixedNow, fixedNow,
			))
		mock.ExpectCommit()

		e, err := g.CreateExpense(context.Background(), newExpense(), testUser)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "e-1", e.ID)
		assert.True(t, decimal.RequireFromString("1245.50").Equal(e.Amount))
		assert.Equal(t, civil.Date{Year: 2025, Month: 4, Day: 12}, e.ExpenseDate)
		assert.Nil(t, e.Category)
		require.NotNil(t, e.Project)
		assert.Equal(t, domain.ProjectMini{ID: testProject, Name: "Debut EP", Currency: domain.CurrencyUSD}, *e.Project)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, name, currency FROM projects`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "currency"}).
				AddRow(testProject, "Debut EP", "USD"))
		mock.ExpectQuery(`INSERT INTO expenses`).
			WillReturnError(&pq.Error{Code: "23503", Message: "fk"})
		mock.ExpectRollback()

		_, err := g.CreateExpense(context.Background(), newExpense(), testUser)
		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, domain.CodeForeignKeyViolation, remote.Code())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGateway_ListExpenses(t *testing.T) {
	t.Run("no project selected issues no query", func(t *testing.T) {
		g, mock := setupGateway(t)

		items, err := g.ListExpenses(context.Background(), testUser, "", "all")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all departments does not filter", func(t *testing.T) {
		g, mock := setupExactGateway(t)
		mock.ExpectQuery(fmt.Sprintf(listExpensesSQL, "")).
			WithArgs(testUser, testProject).
			WillReturnRows(expenseRows(true).
				AddRow("e-2", testUser, testProject, "Mic", "300", "Audio", nil, "Condenser",
					"2025-04-13", nil, nil, fixedNow, fixedNow,
					[]byte(`{"id":"`+testProject+`","name":"Debut EP","currency":"USD"}`)).
				AddRow("e-1", testUser, testProject, "Lens", "1245.5", "Camera", nil, nil,
					"2025-04-12", "B&H Photo", nil, fixedNow, fixedNow,
					[]byte(`{"id":"`+testProject+`","name":"Debut EP","currency":"USD"}`)))

		items, err := g.ListExpenses(context.Background(), testUser, testProject, domain.AllDepartments)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "e-2", items[0].ID)
		assert.Equal(t, "Condenser", *items[0].Description)
		require.NotNil(t, items[1].Project)
		assert.Equal(t, "Debut EP", items[1].Project.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("department filter is pushed to the store", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`WHERE e\.user_id = \$1 AND e\.project_id = \$2 AND e\.department = \$3\s+ORDER BY e\.expense_date DESC, e\.created_at DESC`).
			WithArgs(testUser, testProject, "Lighting").
			WillReturnRows(expenseRows(true))

		items, err := g.ListExpenses(context.Background(), testUser, testProject, "Lighting")
		require.NoError(t, err)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		g, mock := setupGateway(t)
		mock.ExpectQuery(`FROM expenses e`).WillReturnError(errors.New("connection reset"))

		items, err := g.ListExpenses(context.Background(), testUser, testProject, "")
		assert.Nil(t, items)
		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, "list expenses", remote.Op)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
