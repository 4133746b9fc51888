package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filter ListFilter) (int64, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).Take(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

// Update overwrites the mutable columns only; id and date_joined stay.
func (r *repository) Update(ctx context.Context, empl *Employee) error {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", empl.ID).
		Updates(map[string]any{
			"name":       empl.Name,
			"email":      empl.Email,
			"department": empl.Department,
			"role":       empl.Role,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(filter.Scope()).
		Count(&count).Error
	return count, err
}

// List returns newest date_joined first; ties keep insertion (id) order.
func (r *repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope()).
		Order("date_joined DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&empls).Error
	return empls, err
}

func (r *repository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
