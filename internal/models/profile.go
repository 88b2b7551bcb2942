package models

import (
	"gorm.io/datatypes"
)

// Grade levels and subjects offered by the school.
var (
	GradeLevels = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

	Subjects = []string{
		"mathematics",
		"science",
		"language",
		"social_studies",
		"arts",
		"physical_education",
		"technology",
		"other",
	}
)

func IsValidGradeLevel(level string) bool {
	for _, l := range GradeLevels {
		if l == level {
			return true
		}
	}
	return false
}

// IsValidSubject also validates teacher departments, which share the list.
func IsValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

type Student struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName     string          `json:"first_name" gorm:"not null;size:64"`
	LastName      string          `json:"last_name" gorm:"not null;size:64"`
	DateOfBirth   *datatypes.Date `json:"date_of_birth,omitempty"`
	AdmissionDate datatypes.Date  `json:"admission_date"`
	GradeLevel    string          `json:"grade_level" gorm:"size:10;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

type Teacher struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName  string         `json:"first_name" gorm:"not null;size:64"`
	LastName   string         `json:"last_name" gorm:"not null;size:64"`
	HireDate   datatypes.Date `json:"hire_date"`
	Department string         `json:"department" gorm:"size:64"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Teacher) TableName() string {
	return "teachers"
}

func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
