package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

const (
	testUser    = "3f1c2b7a-8d4e-4c1b-9a2f-6e5d4c3b2a10"
	testProject = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	otherProj   = "1b2c3d4e-5f60-4718-9a0b-c1d2e3f40516"
)

type fakeStore struct {
	mu       sync.Mutex
	projects []domain.Project
	expenses []domain.Expense

	createProjectCalls int
	createExpenseCalls int
	listCalls          int

	createErr error
	listErr   error
	nilCreate bool
	listHook  func(projectID, department string)
	seq       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: []domain.Project{
			{ID: testProject, UserID: testUser, Name: "Short Film", Currency: domain.CurrencyGBP},
			{ID: otherProj, UserID: testUser, Name: "EP", Currency: domain.CurrencyUSD},
		},
	}
}

func (f *fakeStore) CreateProject(_ context.Context, fields domain.Project, userID string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createProjectCalls++
	if userID == "" {
		return nil, domain.ErrAuthorizationRequired
	}
	fields.ID = "new-project"
	fields.UserID = userID
	f.projects = append(f.projects, fields)
	return &fields, nil
}

func (f *fakeStore) ListProjects(_ context.Context, userID string) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeStore) GetProject(_ context.Context, id, userID string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id && p.UserID == userID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateExpense(_ context.Context, fields domain.Expense, userID string) (*domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createExpenseCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	fields.ID = "new-" + string(rune('a'+f.seq-1))
	fields.UserID = userID
	for _, p := range f.projects {
		if p.ID == fields.ProjectID {
			fields.Project = p.Mini()
		}
	}
	f.expenses = append([]domain.Expense{fields}, f.expenses...)
	if f.nilCreate {
		return nil, nil
	}
	out := fields
	return &out, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, userID, projectID, department string) ([]domain.Expense, error) {
	f.mu.Lock()
	f.listCalls++
	hook := f.listHook
	err := f.listErr
	var out []domain.Expense
	for _, e := range f.expenses {
		if e.ProjectID != projectID {
			continue
		}
		if department != domain.AllDepartments && department != "" && string(e.Department) != department {
			continue
		}
		out = append(out, e)
	}
	f.mu.Unlock()

	if hook != nil {
		hook(projectID, department)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Expense{}
	}
	return out, nil
}

func (f *fakeStore) calls() (list, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createExpenseCalls
}

func seedExpense(id, project string, dept domain.Department, name string) domain.Expense {
	return domain.Expense{
		ID:          id,
		UserID:      testUser,
		ProjectID:   project,
		Name:        name,
		Amount:      decimal.NewFromInt(10),
		Department:  dept,
		ExpenseDate: civil.Date{Year: 2025, Month: time.April, Day: 1},
	}
}

func rawExpense(dept string) map[string]string {
	return map[string]string{
		"projectId":   testProject,
		"name":        "Boom mic rental",
		"amount":      "120",
		"department":  dept,
		"expenseDate": "2025-04-02",
	}
}

func ids(rows []domain.Expense) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func miniOf(store *fakeStore, id string) *domain.ProjectMini {
	for _, p := range store.projects {
		if p.ID == id {
			return p.Mini()
		}
	}
	return nil
}

func TestLedgerService_CreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		store := newFakeStore()
		svc := NewLedgerService(store, nil)

		p, err := svc.CreateProject(ctx, testUser, map[string]string{"name": "x"})
		require.Error(t, err)
		assert.Nil(t, p)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "name")
		assert.Equal(t, 0, store.createProjectCalls)
	})

	t.Run("valid input is typed and stored", func(t *testing.T) {
		store := newFakeStore()
		svc := NewLedgerService(store, nil)

		p, err := svc.CreateProject(ctx, testUser, map[string]string{
			"name":          "  Debut Album ",
			"description":   "Ten tracks",
			"budgetCeiling": "$12,500",
			"projectType":   "Music",
			"currency":      "EUR",
			"startDate":     "2025-06-01",
			"endDate":       "2025-09-30",
		})
		require.NoError(t, err)
		assert.Equal(t, "Debut Album", p.Name)
		assert.Equal(t, testUser, p.UserID)
		assert.True(t, decimal.NewFromInt(12500).Equal(p.BudgetCeiling))
		assert.Equal(t, 1, store.createProjectCalls)
	})

	t.Run("store errors pass through", func(t *testing.T) {
		svc := NewLedgerService(newFakeStore(), nil)
		_, err := svc.CreateProject(ctx, "", map[string]string{
			"name":          "Debut Album",
			"description":   "Ten tracks",
			"budgetCeiling": "100",
			"projectType":   "Music",
			"currency":      "EUR",
			"startDate":     "2025-06-01",
			"endDate":       "2025-09-30",
		})
		assert.ErrorIs(t, err, domain.ErrAuthorizationRequired)
	})
}

func TestLedgerService_ListExpenses(t *testing.T) {
	store := newFakeStore()
	store.expenses = []domain.Expense{
		seedExpense("1", testProject, domain.DepartmentCamera, "Lens rental"),
		seedExpense("2", testProject, domain.DepartmentAudio, "Boom pole"),
	}
	svc := NewLedgerService(store, nil)

	rows, err := svc.ListExpenses(context.Background(), testUser, testProject, domain.AllDepartments, "lens")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(rows))

	rows, err = svc.ListExpenses(context.Background(), testUser, testProject, "Audio", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(rows))
}

func TestExpenseView_SelectAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.expenses = []domain.Expense{
		seedExpense("1", testProject, domain.DepartmentCamera, "Lens rental"),
		seedExpense("2", testProject, domain.DepartmentAudio, "Boom pole"),
		seedExpense("3", otherProj, domain.DepartmentCamera, "Tripod"),
	}
	view := NewLedgerService(store, nil).NewExpenseView(testUser)

	assert.Empty(t, view.Visible())

	applied, err := view.SelectProject(ctx, miniOf(store, testProject))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"1", "2"}, ids(view.Visible()))

	applied, err = view.SelectDepartment(ctx, "Audio")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"2"}, ids(view.Visible()))

	_, err = view.SelectDepartment(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.AllDepartments, view.Filters().Department)

	listBefore, _ := store.calls()
	view.SetSearch("LENS")
	assert.Equal(t, []string{"1"}, ids(view.Visible()))
	assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))
	listAfter, _ := store.calls()
	assert.Equal(t, listBefore, listAfter)

	_, err = view.SelectProject(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, view.Rows())
}

func TestExpenseView_Add(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, dept string) (*fakeStore, *ExpenseView) {
		t.Helper()
		store := newFakeStore()
		store.expenses = []domain.Expense{
			seedExpense("1", testProject, domain.DepartmentCamera, "Lens rental"),
			seedExpense("2", testProject, domain.DepartmentAudio, "Boom pole"),
		}
		view := NewLedgerService(store, nil).NewExpenseView(testUser)
		_, err := view.SelectProject(ctx, miniOf(store, testProject))
		require.NoError(t, err)
		if dept != "" {
			_, err = view.SelectDepartment(ctx, dept)
			require.NoError(t, err)
		}
		return store, view
	}

	t.Run("matching record is prepended without a reload", func(t *testing.T) {
		store, view := setup(t, "")
		listBefore, _ := store.calls()

		e, err := view.Add(ctx, rawExpense("Audio"))
		require.NoError(t, err)
		require.NotNil(t, e)
		require.NotNil(t, e.Project)
		assert.Equal(t, "Short Film", e.Project.Name)

		listAfter, _ := store.calls()
		assert.Equal(t, listBefore, listAfter)
		assert.Equal(t, []string{e.ID, "1", "2"}, ids(view.Rows()))
	})

	t.Run("record outside the department filter triggers a reload", func(t *testing.T) {
		store, view := setup(t, "Camera")
		listBefore, _ := store.calls()

		e, err := view.Add(ctx, rawExpense("Lighting"))
		require.NoError(t, err)
		require.NotNil(t, e)

		listAfter, _ := store.calls()
		assert.Equal(t, listBefore+1, listAfter)
		assert.Equal(t, []string{"1"}, ids(view.Rows()))
	})

	t.Run("store returning no row triggers a reload", func(t *testing.T) {
		store, view := setup(t, "")
		store.nilCreate = true

		e, err := view.Add(ctx, rawExpense("Camera"))
		require.NoError(t, err)
		assert.Nil(t, e)
		assert.Len(t, view.Rows(), 3)
	})

	t.Run("validation failure leaves the list alone", func(t *testing.T) {
		store, view := setup(t, "")
		raw := rawExpense("Camera")
		raw["amount"] = "-5"

		_, err := view.Add(ctx, raw)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "amount")

		_, creates := store.calls()
		assert.Equal(t, 0, creates)
		assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))
	})

	t.Run("store failure leaves the list alone", func(t *testing.T) {
		store, view := setup(t, "")
		store.createErr = domain.ErrProjectNotFound

		_, err := view.Add(ctx, rawExpense("Camera"))
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))
	})

	t.Run("reload failure after a successful write", func(t *testing.T) {
		store, view := setup(t, "Camera")
		store.listErr = errors.New("connection reset")

		e, err := view.Add(ctx, rawExpense("Audio"))
		require.Error(t, err)
		require.NotNil(t, e)
		assert.Equal(t, []string{"1"}, ids(view.Rows()))
	})
}

func TestExpenseView_RefreshErrorKeepsRows(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.expenses = []domain.Expense{seedExpense("1", testProject, domain.DepartmentCamera, "Lens rental")}
	view := NewLedgerService(store, nil).NewExpenseView(testUser)

	_, err := view.SelectProject(ctx, miniOf(store, testProject))
	require.NoError(t, err)

	store.mu.Lock()
	store.listErr = errors.New("timeout")
	store.mu.Unlock()

	applied, err := view.Refresh(ctx)
	require.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, []string{"1"}, ids(view.Rows()))
}

func TestExpenseView_DropsStaleResponses(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.expenses = []domain.Expense{
		seedExpense("1", testProject, domain.DepartmentCamera, "Lens rental"),
		seedExpense("2", testProject, domain.DepartmentAudio, "Boom pole"),
	}
	view := NewLedgerService(store, nil).NewExpenseView(testUser)
	_, err := view.SelectProject(ctx, miniOf(store, testProject))
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.mu.Lock()
	store.listHook = func(_, department string) {
		if department == "Camera" {
			close(entered)
			<-release
		}
	}
	store.mu.Unlock()

	type result struct {
		applied bool
		err     error
	}
	slow := make(chan result, 1)
	go func() {
		applied, err := view.SelectDepartment(ctx, "Camera")
		slow <- result{applied, err}
	}()

	<-entered
	applied, err := view.SelectDepartment(ctx, "Audio")
	require.NoError(t, err)
	assert.True(t, applied)

	close(release)
	r := <-slow
	require.NoError(t, r.err)
	assert.False(t, r.applied)

	assert.Equal(t, "Audio", view.Filters().Department)
	assert.Equal(t, []string{"2"}, ids(view.Rows()))
}
