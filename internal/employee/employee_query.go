package employee

import (
	"strconv"

	"gorm.io/gorm"
)

// PageSize is fixed for every listing.
const PageSize = 10

// ListFilter holds optional exact-match filters. A nil field means "no
// filter"; a pointer to "" only matches rows whose value is "".
type ListFilter struct {
	Department *string
	Role       *string
}

func (f ListFilter) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Department != nil {
			db = db.Where("department = ?", *f.Department)
		}
		if f.Role != nil {
			db = db.Where("role = ?", *f.Role)
		}
		return db
	}
}

type ListQuery struct {
	Filter ListFilter
	Page   int
}

// ParseListQuery builds a query from raw request values. department and role
// are nil when the key was absent from the query string.
func ParseListQuery(department, role *string, page string) ListQuery {
	return ListQuery{
		Filter: ListFilter{Department: department, Role: role},
		Page:   ParsePage(page),
	}
}

// ParsePage returns page as a 1-based number, falling back to 1 when it is
// missing, not a number, or below 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// TotalPages is never below 1, so an empty result still has one page.
func TotalPages(count int64, size int) int {
	if count <= 0 || size <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// ClampPage keeps page within [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func pageOffset(page int) int {
	return (page - 1) * PageSize
}
