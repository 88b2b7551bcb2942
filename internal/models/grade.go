package models

import "time"

type Grade struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Score     float64   `json:"score" gorm:"not null"`
	MaxScore  float64   `json:"max_score" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Comments  string    `json:"comments" gorm:"type:text"`
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	ModuleID  uint      `json:"module_id" gorm:"not null;index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Module  *Module  `json:"module,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Grade) TableName() string {
	return "grades"
}

// Percentage is score/max*100, or 0 when max is not positive.
func (g *Grade) Percentage() float64 {
	if g.MaxScore <= 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}
