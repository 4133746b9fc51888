package employee

import (
	"context"
	"errors"
	"time"

	employeeerrors "go-employees/internal/employee/errors"
	"go-employees/internal/events"
	"go-employees/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Clock returns the current time; date_joined takes its calendar date.
type Clock func() time.Time

type Service interface {
	Create(ctx context.Context, req EmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, q ListQuery) (EmployeeListResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, id int64, req EmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db        *gorm.DB
	repo      Repository
	validator *Validator
	publisher EventPublisher
	now       Clock
	logger    *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, publisher EventPublisher, logger ...*zap.Logger) Service {
	return NewServiceWithClock(db, repo, publisher, time.Now, logger...)
}

func NewServiceWithClock(
	db *gorm.DB,
	repo Repository,
	publisher EventPublisher,
	now Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = noopEventPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		validator: NewValidator(repo),
		publisher: publisher,
		now:       now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req EmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested", zap.String("request_id", rid))

	fields, err := s.validator.Validate(ctx, req, 0)
	if err != nil {
		s.logger.Info("create employee rejected", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		Name:       fields.Name,
		Email:      fields.Email,
		Department: fields.Department,
		Role:       fields.Role,
		DateJoined: today(s.now().UTC()),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
			s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		return s.publish(ctx, tx, events.EmployeeCreated, empl)
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) List(ctx context.Context, q ListQuery) (EmployeeListResponse, error) {
	s.logger.Debug("list employees requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Stringp("department", q.Filter.Department),
		zap.Stringp("role", q.Filter.Role),
		zap.Int("page", q.Page),
	)

	count, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		s.logger.Error("count employees failed", zap.Error(err))
		return EmployeeListResponse{}, mapRepositoryError(err)
	}

	totalPages := TotalPages(count, PageSize)
	page := ClampPage(q.Page, totalPages)

	results := []EmployeeResponse{}
	if count > 0 {
		empls, err := s.repo.List(ctx, q.Filter, PageSize, pageOffset(page))
		if err != nil {
			s.logger.Error("list employees failed", zap.Error(err))
			return EmployeeListResponse{}, mapRepositoryError(err)
		}
		results = mapToListResponse(empls)
	}

	return EmployeeListResponse{
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: page,
		Results:     results,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.Int64("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, s.logLookupError("get employee by id failed", id, err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id int64, req EmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", id),
	)

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, s.logLookupError("update employee fetch existing failed", id, err)
	}

	fields, err := s.validator.Validate(ctx, req, id)
	if err != nil {
		s.logger.Info("update employee rejected",
			zap.String("request_id", rid),
			zap.Int64("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	empl.Name = fields.Name
	empl.Email = fields.Email
	empl.Department = fields.Department
	empl.Role = fields.Role

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, empl); err != nil {
			s.logger.Error("update employee persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		return s.publish(ctx, tx, events.EmployeeUpdated, empl)
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("request_id", rid), zap.Int64("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", id),
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return mapRepositoryError(err)
		}
		return s.publish(ctx, tx, events.EmployeeDeleted, &Employee{ID: id})
	})
	if err != nil {
		return s.logLookupError("delete employee failed", id, err)
	}

	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.Int64("employee_id", id))
	return nil
}

func (s *service) publish(ctx context.Context, tx *gorm.DB, eventType string, empl *Employee) error {
	event := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		EmployeeID: empl.ID,
		Email:      empl.Email,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, tx, event); err != nil {
		s.logger.Error("employee event persist failed",
			zap.String("event_type", eventType),
			zap.Int64("employee_id", empl.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// logLookupError maps err; a missing record is routine and logged at debug.
func (s *service) logLookupError(msg string, id int64, err error) error {
	mapped := mapRepositoryError(err)
	if errors.Is(mapped, employeeerrors.ErrEmployeeNotFound) {
		s.logger.Debug(msg, zap.Int64("employee_id", id), zap.Error(mapped))
	} else {
		s.logger.Error(msg, zap.Int64("employee_id", id), zap.Error(err))
	}
	return mapped
}

func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         empl.ID,
		Name:       empl.Name,
		Email:      empl.Email,
		Department: empl.Department,
		Role:       empl.Role,
		DateJoined: empl.DateJoined.Format(dateLayout),
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
