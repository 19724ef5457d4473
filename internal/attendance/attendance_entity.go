package attendance

import "time"

// Attendance status is a closed two-value enumeration, mirrored by a check
// constraint at the storage layer.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent
}

type Attendance struct {
	ID         int64        `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID string       `gorm:"column:employee_id;type:varchar(50);not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status     string       `gorm:"column:status;type:varchar(10);not null;check:chk_attendance_status,status IN ('Present','Absent')"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnDelete:CASCADE"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	EmployeeID string `gorm:"column:employee_id;type:varchar(50);primaryKey"`
	Name       string `gorm:"column:name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
