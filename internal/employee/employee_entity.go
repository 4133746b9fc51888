package employee

import "time"

type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"size:255;not null"`
	Email      string    `gorm:"size:254;not null;uniqueIndex:uq_employees_email"`
	Department *string   `gorm:"size:100;index"`
	Role       *string   `gorm:"size:100;index"`
	DateJoined time.Time `gorm:"type:date;not null;index"`
}

func (Employee) TableName() string {
	return "employees"
}
