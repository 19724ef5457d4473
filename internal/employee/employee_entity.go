package employee

import "time"

type Employee struct {
	EmployeeID string `gorm:"column:employee_id;type:varchar(50);primaryKey"`
	Name       string `gorm:"column:name;type:varchar(100);not null"`
	Email      string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Department string `gorm:"column:department;type:varchar(100);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "employees"
}
