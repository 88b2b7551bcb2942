package models

import "time"

// Module is teacher-authored learning material for one grade level and subject.
type Module struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:128"`
	Description string    `json:"description" gorm:"type:text"`
	FilePath    *string   `json:"file_path,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	TeacherID   uint      `json:"teacher_id" gorm:"not null;index"`
	GradeLevel  string    `json:"grade_level" gorm:"size:10;index"`
	Subject     string    `json:"subject" gorm:"size:64"`

	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) HasFile() bool {
	return m.FilePath != nil && *m.FilePath != ""
}

func (m *Module) OwnedBy(teacherID uint) bool {
	return m.TeacherID == teacherID
}
