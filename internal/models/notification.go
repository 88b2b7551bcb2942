package models

import "time"

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:128"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Read      bool      `json:"read" gorm:"column:is_read;not null;default:false"`
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	SenderID  *uint     `json:"sender_id,omitempty" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Sender  *Teacher `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL"`
}

func (Notification) TableName() string {
	return "notifications"
}
