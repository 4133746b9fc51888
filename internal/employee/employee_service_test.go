package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-employees/internal/employee"
	employeeerrors "go-employees/internal/employee/errors"
	employeeMock "go-employees/internal/employee/mock"
	"go-employees/internal/events"
	"go-employees/internal/messaging/kafka"
	kafkaMock "go-employees/internal/messaging/kafka/mock"
	"go-employees/internal/shared/apperror"
	"go-employees/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 14, 17, 45, 0, 0, time.UTC)

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock := newGormMock(t)
	repo := employeeMock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithClock(
		db,
		repo,
		employee.NewOutboxEventPublisher(outbox, events.EmployeeLifecycleTopic),
		func() time.Time { return fixedNow },
	)

	return &serviceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func strPtr(s string) *string { return &s }

func decodeLifecycle(t *testing.T, event kafka.OutboxEvent) events.EmployeeLifecycleEvent {
	t.Helper()
	var out events.EmployeeLifecycleEvent
	require.NoError(t, json.Unmarshal(event.Payload, &out))
	return out
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{
			Name:       strPtr("  Ada Lovelace "),
			Email:      strPtr(" ada@example.com "),
			Department: strPtr("Engineering"),
		}

		deps.repo.EXPECT().ExistsByEmail(ctx, "ada@example.com", int64(0)).Return(false, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Ada Lovelace", e.Name)
				assert.Equal(t, "ada@example.com", e.Email)
				assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), e.DateJoined)
				assert.Nil(t, e.Role)
				e.ID = 7
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeCreated, ev.EventType)
				assert.Equal(t, "7", ev.AggregateID)
				assert.Equal(t, "REQ-1", ev.RequestID)
				assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
				payload := decodeLifecycle(t, ev)
				assert.Equal(t, int64(7), payload.EmployeeID)
				assert.Equal(t, "ada@example.com", payload.Email)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "2026-03-14", resp.DateJoined)
		assert.Equal(t, "Engineering", *resp.Department)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation error - nothing written", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("   "), Email: strPtr("not-an-email")}

		_, err := deps.service.Create(ctx, req)

		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{employeeerrors.MsgNameEmpty}, vErr.Fields["name"])
		assert.Equal(t, []string{apperror.MsgInvalidEmail}, vErr.Fields["email"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("Ada"), Email: strPtr("ada@example.com")}

		deps.repo.EXPECT().ExistsByEmail(ctx, "ada@example.com", int64(0)).Return(true, nil)

		_, err := deps.service.Create(ctx, req)

		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{employeeerrors.MsgEmailTaken}, vErr.Fields["email"])
	})

	t.Run("unique violation on insert maps to email error", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("Ada"), Email: strPtr("ada@example.com")}

		deps.repo.EXPECT().ExistsByEmail(ctx, "ada@example.com", int64(0)).Return(false, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(errors.New(`ERROR: duplicate key value violates unique constraint "uq_employees_email" (SQLSTATE 23505)`))

		_, err := deps.service.Create(ctx, req)

		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.True(t, vErr.Has("email"))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("Ada"), Email: strPtr("ada@example.com")}
		boom := errors.New("outbox down")

		deps.repo.EXPECT().ExistsByEmail(ctx, "ada@example.com", int64(0)).Return(false, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(boom)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_CreateDateIsUTC(t *testing.T) {
	ctx := context.Background()
	db, sqlMock := newGormMock(t)
	repo := employeeMock.NewMockRepository(gomock.NewController(t))

	// 22:30 on the 14th in UTC-5 is already the 15th in UTC.
	local := time.Date(2026, 3, 14, 22, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	svc := employee.NewServiceWithClock(db, repo, nil, func() time.Time { return local })

	repo.EXPECT().ExistsByEmail(ctx, "ada@example.com", int64(0)).Return(false, nil)
	expectTx(t, sqlMock, true)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), e.DateJoined)
			e.ID = 1
			return nil
		})

	resp, err := svc.Create(ctx, employee.EmployeeRequest{Name: strPtr("Ada"), Email: strPtr("ada@example.com")})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", resp.DateJoined)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("page beyond last is clamped", func(t *testing.T) {
		deps := setupServiceTest(t)
		filter := employee.ListFilter{Department: strPtr("Engineering")}

		deps.repo.EXPECT().Count(ctx, filter).Return(int64(15), nil)
		deps.repo.EXPECT().List(ctx, filter, employee.PageSize, 10).Return([]employee.Employee{
			{ID: 11, Name: "K", Email: "k@example.com", DateJoined: fixedNow},
		}, nil)

		resp, err := deps.service.List(ctx, employee.ListQuery{Filter: filter, Page: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(15), resp.Count)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, 2, resp.CurrentPage)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "2026-03-14", resp.Results[0].DateJoined)
	})

	t.Run("empty store returns one empty page", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().Count(ctx, employee.ListFilter{}).Return(int64(0), nil)
		deps.repo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		resp, err := deps.service.List(ctx, employee.ListQuery{Page: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, 1, resp.CurrentPage)
		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results)
	})

	t.Run("storage failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		boom := errors.New("connection reset")

		deps.repo.EXPECT().Count(ctx, employee.ListFilter{}).Return(int64(0), boom)

		_, err := deps.service.List(ctx, employee.ListQuery{Page: 1})

		assert.ErrorIs(t, err, boom)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, int64(3)).Return(&employee.Employee{
			ID: 3, Name: "Grace", Email: "grace@example.com", Role: strPtr("Admiral"), DateJoined: fixedNow,
		}, nil)

		resp, err := deps.service.GetByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "Grace", resp.Name)
		assert.Equal(t, "Admiral", *resp.Role)
		assert.Nil(t, resp.Department)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, int64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, 99)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *employee.Employee {
		return &employee.Employee{
			ID:         4,
			Name:       "Old",
			Email:      "old@example.com",
			Department: strPtr("Sales"),
			Role:       strPtr("Rep"),
			DateJoined: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("full replacement keeps id and date_joined", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("New"), Email: strPtr("old@example.com")}

		deps.repo.EXPECT().FindByID(ctx, int64(4)).Return(existing(), nil)
		deps.repo.EXPECT().ExistsByEmail(ctx, "old@example.com", int64(4)).Return(false, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, int64(4), e.ID)
				assert.Equal(t, "New", e.Name)
				assert.Nil(t, e.Department)
				assert.Nil(t, e.Role)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeUpdated, ev.EventType)
				return nil
			})

		resp, err := deps.service.Update(ctx, 4, req)

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.ID)
		assert.Equal(t, "2025-01-02", resp.DateJoined)
		assert.Nil(t, resp.Department)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found is checked before validation", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(ctx, int64(4)).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, 4, employee.EmployeeRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("email owned by another record", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.EmployeeRequest{Name: strPtr("Old"), Email: strPtr("taken@example.com")}

		deps.repo.EXPECT().FindByID(ctx, int64(4)).Return(existing(), nil)
		deps.repo.EXPECT().ExistsByEmail(ctx, "taken@example.com", int64(4)).Return(true, nil)

		_, err := deps.service.Update(ctx, 4, req)

		var vErr *apperror.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{employeeerrors.MsgEmailTaken}, vErr.Fields["email"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, int64(5)).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeDeleted, ev.EventType)
				assert.Equal(t, "5", ev.AggregateID)
				assert.Empty(t, decodeLifecycle(t, ev).Email)
				return nil
			})

		err := deps.service.Delete(ctx, 5)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, int64(5)).Return(gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, 5)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
