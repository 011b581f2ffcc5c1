package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks IdentityClient

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"darum/internal/employee/events"
	"darum/internal/employee/models"
	"darum/internal/employee/service/mocks"
	empstore "darum/internal/employee/store/employee"
	"darum/internal/identityclient"
	"darum/internal/platform/metrics"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/requestcontext"
)

var (
	testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codeRe   = regexp.MustCompile(`^EMP-[A-Z0-9]{6}$`)

	adminUser = identityclient.User{
		ID: "admin-id", Email: "admin@example.com",
		FirstName: "Ada", LastName: "Admin",
		Roles: []string{"USER", "ADMIN"},
	}
	superUser = identityclient.User{
		ID: "root-id", Email: "root@example.com",
		Roles: []string{"USER", "ADMIN", "SUPERADMIN"},
	}
	plainUser = identityclient.User{
		ID: "user-id", Email: "user@example.com",
		Roles: []string{"USER"},
	}
	bobUser = identityclient.User{
		ID: "bob-id", Email: "bob@example.com",
		FirstName: "Bob", LastName: "Jones",
		Roles: []string{"USER"},
	}
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	created []events.EmployeeCreated
	status  []events.EmployeeStatusUpdated
	roles   []events.RoleChanged
}

func (p *recordingPublisher) EmployeeCreated(_ context.Context, e events.EmployeeCreated) {
	p.created = append(p.created, e)
}

func (p *recordingPublisher) EmployeeStatusUpdated(_ context.Context, e events.EmployeeStatusUpdated) {
	p.status = append(p.status, e)
}

func (p *recordingPublisher) RoleChanged(_ context.Context, e events.RoleChanged) {
	p.roles = append(p.roles, e)
}

type testEnv struct {
	svc       *Service
	store     *empstore.InMemoryStore
	identity  *mocks.MockIdentityClient
	published *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := empstore.NewInMemory()
	identity := mocks.NewMockIdentityClient(ctrl)
	published := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := New(store, identity, published, logger, metrics.New("test"),
		WithClock(func() time.Time { return testTime }))
	require.NoError(t, err)

	return &testEnv{svc: svc, store: store, identity: identity, published: published}
}

// seedEmployee puts an existing employee record in the local store.
func (e *testEnv) seedEmployee(t *testing.T, user identityclient.User, dept models.Department) models.Employee {
	t.Helper()
	base := strings.ToUpper(strings.ReplaceAll(user.ID, "-", "")) + "000000"
	emp := models.Employee{
		ID:         "emp-" + user.ID,
		Code:       "EMP-" + base[:6],
		IdentityID: user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Department: dept,
		Position:   "Engineer",
		Status:     models.StatusActive,
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
	}
	require.NoError(t, e.store.Create(t.Context(), emp))
	return emp
}

func TestCreateEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("binds a record to the target identity and publishes the event", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

		details, err := env.svc.CreateEmployee(ctx, CreateEmployeeInput{
			Email:      "bob@example.com",
			Department: "it",
			Position:   "Engineer",
		})
		require.NoError(t, err)

		emp := details.Employee
		assert.Regexp(t, codeRe, emp.Code)
		assert.Equal(t, "bob-id", emp.IdentityID)
		assert.Equal(t, "bob@example.com", emp.Email)
		assert.Equal(t, "Bob", emp.FirstName)
		assert.Equal(t, models.DepartmentIT, emp.Department)
		assert.Equal(t, models.StatusActive, emp.Status)
		assert.Equal(t, []string{"USER"}, details.Roles)

		require.Len(t, env.published.created, 1)
		assert.Equal(t, emp.Code, env.published.created[0].EmployeeCode)
		assert.Equal(t, "Bob Jones", env.published.created[0].FullName)
	})

	t.Run("non-admin actor is denied before any lookup", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(plainUser, nil)

		_, err := env.svc.CreateEmployee(ctx, CreateEmployeeInput{Email: "bob@example.com", Department: "IT"})
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
		assert.Equal(t, "access denied: InsufficientRole", dErrors.MessageOf(err))
		assert.Empty(t, env.published.created)
	})

	t.Run("unknown target identity is not found", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").
			Return(identityclient.User{}, dErrors.New(dErrors.CodeNotFound, "user not found with email: ghost@example.com"))

		_, err := env.svc.CreateEmployee(ctx, CreateEmployeeInput{Email: "ghost@example.com", Department: "IT"})
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("invalid department is a validation error", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

		_, err := env.svc.CreateEmployee(ctx, CreateEmployeeInput{Email: "bob@example.com", Department: "NOT_A_DEPT"})
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))

		all, listErr := env.store.ListAll(ctx)
		require.NoError(t, listErr)
		assert.Empty(t, all)
	})

	t.Run("a second record for the same identity conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

		_, err := env.svc.CreateEmployee(ctx, CreateEmployeeInput{Email: "bob@example.com", Department: "HR"})
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})
}

// flakyStore injects failures in front of the in-memory store.
type flakyStore struct {
	empstore.Store
	createErrs []error
	updateErr  error
}

func (f *flakyStore) Create(ctx context.Context, emp models.Employee) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	return f.Store.Create(ctx, emp)
}

func (f *flakyStore) Update(ctx context.Context, emp models.Employee) (models.Employee, error) {
	if f.updateErr != nil {
		return models.Employee{}, f.updateErr
	}
	return f.Store.Update(ctx, emp)
}

func TestCreateEmployeeCodeCollision(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityClient(ctrl)
	store := &flakyStore{
		Store:      empstore.NewInMemory(),
		createErrs: []error{empstore.ErrDuplicateCode},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := New(store, identity, nil, logger, nil,
		WithClock(func() time.Time { return testTime }))
	require.NoError(t, err)

	identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
	identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

	details, err := svc.CreateEmployee(ctx, CreateEmployeeInput{Email: "bob@example.com", Department: "IT"})
	require.NoError(t, err)
	assert.Regexp(t, codeRe, details.Employee.Code)
}

func TestPromoteToManager(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the role, moves the department, and answers with fresh roles", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)

		promoted := bobUser
		promoted.Roles = []string{"USER", "MANAGER"}

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		gomock.InOrder(
			env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil),
			env.identity.EXPECT().AddRole(gomock.Any(), "bob-id", "MANAGER").Return(promoted, nil),
			env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(promoted, nil),
		)

		details, err := env.svc.PromoteToManager(ctx, "bob@example.com", "SALES")
		require.NoError(t, err)
		assert.Equal(t, models.DepartmentSales, details.Employee.Department)
		assert.Equal(t, []string{"USER", "MANAGER"}, details.Roles)

		require.Len(t, env.published.roles, 1)
		assert.Equal(t, "MANAGER", env.published.roles[0].Role)
		assert.Equal(t, events.RoleAdded, env.published.roles[0].Action)
		assert.Equal(t, "admin@example.com", env.published.roles[0].ActorEmail)
	})

	t.Run("invalid department fails before any identity or employee mutation", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.PromoteToManager(ctx, "bob@example.com", "NOT_A_DEPT")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("a target with no employee record fails before the remote role call", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)

		_, err := env.svc.PromoteToManager(ctx, "bob@example.com", "SALES")
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("a repeat promotion surfaces the identity side's conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)

		hasRole := bobUser
		hasRole.Roles = []string{"USER", "MANAGER"}

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(hasRole, nil)
		env.identity.EXPECT().AddRole(gomock.Any(), "bob-id", "MANAGER").
			Return(identityclient.User{}, dErrors.New(dErrors.CodeConflict, "user already has role: MANAGER"))

		_, err := env.svc.PromoteToManager(ctx, "bob@example.com", "SALES")
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
		assert.Empty(t, env.published.roles)
	})

	t.Run("admin cannot promote another admin", func(t *testing.T) {
		env := newTestEnv(t)
		otherAdmin := identityclient.User{ID: "other-id", Email: "other@example.com", Roles: []string{"USER", "ADMIN"}}
		env.seedEmployee(t, otherAdmin, models.DepartmentIT)

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "other@example.com").Return(otherAdmin, nil)

		_, err := env.svc.PromoteToManager(ctx, "other@example.com", "SALES")
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
	})

	t.Run("local write failure after the remote mutation is surfaced, not rolled back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		identity := mocks.NewMockIdentityClient(ctrl)
		mem := empstore.NewInMemory()
		store := &flakyStore{Store: mem, updateErr: context.DeadlineExceeded}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		svc, err := New(store, identity, nil, logger, nil,
			WithClock(func() time.Time { return testTime }))
		require.NoError(t, err)

		require.NoError(t, mem.Create(ctx, models.Employee{
			ID: "emp-bob", Code: "EMP-BOB000", IdentityID: "bob-id",
			Email: "bob@example.com", Department: models.DepartmentIT,
			Status: models.StatusActive, CreatedAt: testTime, UpdatedAt: testTime,
		}))

		promoted := bobUser
		promoted.Roles = []string{"USER", "MANAGER"}
		identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)
		identity.EXPECT().AddRole(gomock.Any(), "bob-id", "MANAGER").Return(promoted, nil)

		_, err = svc.PromoteToManager(ctx, "bob@example.com", "SALES")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
	})
}

func TestDemoteManager(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedEmployee(t, bobUser, models.DepartmentSales)

	manager := bobUser
	manager.Roles = []string{"USER", "MANAGER"}
	demoted := bobUser
	demoted.Roles = []string{"USER"}

	env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
	gomock.InOrder(
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(manager, nil),
		env.identity.EXPECT().RemoveRole(gomock.Any(), "bob-id", "MANAGER").Return(demoted, nil),
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(demoted, nil),
	)

	details, err := env.svc.DemoteManager(ctx, "bob@example.com")
	require.NoError(t, err)
	// Department is kept on demotion.
	assert.Equal(t, models.DepartmentSales, details.Employee.Department)
	assert.Equal(t, []string{"USER"}, details.Roles)

	require.Len(t, env.published.roles, 1)
	assert.Equal(t, events.RoleRemoved, env.published.roles[0].Action)
}

func TestAdminRoleMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("only SUPERADMIN may grant ADMIN", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)

		_, err := env.svc.PromoteToAdmin(ctx, "bob@example.com")
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
	})

	t.Run("superadmin grants and removes ADMIN", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)

		granted := bobUser
		granted.Roles = []string{"USER", "ADMIN"}

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(superUser, nil)
		gomock.InOrder(
			env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil),
			env.identity.EXPECT().AddRole(gomock.Any(), "bob-id", "ADMIN").Return(granted, nil),
			env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(granted, nil),
		)

		details, err := env.svc.PromoteToAdmin(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Contains(t, details.Roles, "ADMIN")
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin suspends an employee and publishes the transition", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
		env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

		details, err := env.svc.UpdateStatus(ctx, "bob@example.com", "suspended")
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuspended, details.Employee.Status)

		require.Len(t, env.published.status, 1)
		assert.Equal(t, models.StatusActive, env.published.status[0].OldStatus)
		assert.Equal(t, models.StatusSuspended, env.published.status[0].NewStatus)
	})

	t.Run("admin cannot change their own status", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, adminUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)

		_, err := env.svc.UpdateStatus(ctx, "admin@example.com", "INACTIVE")
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
		assert.Equal(t, "access denied: SelfActionForbidden", dErrors.MessageOf(err))
	})

	t.Run("the self check ignores email casing", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, adminUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)

		_, err := env.svc.UpdateStatus(ctx, "Admin@Example.COM", "INACTIVE")
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
		assert.Equal(t, "access denied: SelfActionForbidden", dErrors.MessageOf(err))
	})

	t.Run("invalid status is a validation error", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.UpdateStatus(ctx, "bob@example.com", "RETIRED")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestUpdateDepartment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	emp := env.seedEmployee(t, bobUser, models.DepartmentIT)

	env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
	env.identity.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(bobUser, nil)

	details, err := env.svc.UpdateDepartment(ctx, emp.Code, "FINANCE")
	require.NoError(t, err)
	assert.Equal(t, models.DepartmentFinance, details.Employee.Department)
}

func TestGetByCode(t *testing.T) {
	ctx := context.Background()
	managerUser := identityclient.User{ID: "mgr-id", Email: "mgr@example.com", Roles: []string{"USER", "MANAGER"}}

	t.Run("manager sees own department only", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, managerUser, models.DepartmentHR)
		hrEmp := env.seedEmployee(t, bobUser, models.DepartmentHR)
		itUser := identityclient.User{ID: "it-id", Email: "it@example.com", Roles: []string{"USER"}}
		itEmp := env.seedEmployee(t, itUser, models.DepartmentIT)

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(managerUser, nil).Times(2)

		got, err := env.svc.GetByCode(ctx, hrEmp.Code)
		require.NoError(t, err)
		assert.Equal(t, hrEmp.Code, got.Code)

		_, err = env.svc.GetByCode(ctx, itEmp.Code)
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
	})

	t.Run("a manager with no employee record cannot be scoped", func(t *testing.T) {
		env := newTestEnv(t)
		emp := env.seedEmployee(t, bobUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(managerUser, nil)

		_, err := env.svc.GetByCode(ctx, emp.Code)
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
	})

	t.Run("admin views across departments", func(t *testing.T) {
		env := newTestEnv(t)
		emp := env.seedEmployee(t, bobUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)

		got, err := env.svc.GetByCode(ctx, emp.Code)
		require.NoError(t, err)
		assert.Equal(t, emp.Code, got.Code)
	})

	t.Run("a plain user may not view employees", func(t *testing.T) {
		env := newTestEnv(t)
		emp := env.seedEmployee(t, bobUser, models.DepartmentIT)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(plainUser, nil)

		_, err := env.svc.GetByCode(ctx, emp.Code)
		assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
	})
}

func TestMyDetails(t *testing.T) {
	env := newTestEnv(t)
	emp := env.seedEmployee(t, bobUser, models.DepartmentIT)

	ctx := requestcontext.WithPrincipal(context.Background(), domain.Principal{
		ID: "bob-id", Email: "bob@example.com", Roles: []domain.Role{domain.RoleUser},
	})

	got, err := env.svc.MyDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, emp.Code, got.Code)

	_, err = env.svc.MyDetails(context.Background())
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestListMyDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the caller's own department", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedEmployee(t, bobUser, models.DepartmentIT)
		itUser := identityclient.User{ID: "it-id", Email: "it@example.com", Roles: []string{"USER"}}
		env.seedEmployee(t, itUser, models.DepartmentIT)
		hrUser := identityclient.User{ID: "hr-id", Email: "hr@example.com", Roles: []string{"USER"}}
		env.seedEmployee(t, hrUser, models.DepartmentHR)

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(bobUser, nil)

		emps, err := env.svc.ListMyDepartment(ctx)
		require.NoError(t, err)
		assert.Len(t, emps, 2)
	})

	t.Run("superadmin with no employee record falls back to the default department", func(t *testing.T) {
		env := newTestEnv(t)
		opsUser := identityclient.User{ID: "ops-id", Email: "ops@example.com", Roles: []string{"USER"}}
		env.seedEmployee(t, opsUser, models.DepartmentOperations)
		env.seedEmployee(t, bobUser, models.DepartmentIT)

		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(superUser, nil)

		emps, err := env.svc.ListMyDepartment(ctx)
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, models.DepartmentOperations, emps[0].Department)
	})

	t.Run("anyone else without an employee record fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.EXPECT().WhoAmI(gomock.Any()).Return(plainUser, nil)

		_, err := env.svc.ListMyDepartment(ctx)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedEmployee(t, bobUser, models.DepartmentIT)

	env.identity.EXPECT().WhoAmI(gomock.Any()).Return(adminUser, nil)
	emps, err := env.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, emps, 1)

	managerUser := identityclient.User{ID: "mgr-id", Email: "mgr@example.com", Roles: []string{"USER", "MANAGER"}}
	env.identity.EXPECT().WhoAmI(gomock.Any()).Return(managerUser, nil)
	_, err = env.svc.ListAll(ctx)
	assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
}

func TestListDepartments(t *testing.T) {
	env := newTestEnv(t)
	depts := env.svc.ListDepartments()
	assert.Len(t, depts, 7)
	assert.Contains(t, depts, models.DepartmentOperations)
}
