package models

// AttendanceCounts tallies a student's attendance rows by status.
type AttendanceCounts struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Total   int64 `json:"total"`
}

func (c *AttendanceCounts) Add(status AttendanceStatus) {
	switch status {
	case AttendancePresent:
		c.Present++
	case AttendanceAbsent:
		c.Absent++
	case AttendanceLate:
		c.Late++
	}
	c.Total++
}

// Rate is the share of present days as a percentage, 0 when nothing was recorded.
func (c AttendanceCounts) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Present) / float64(c.Total) * 100
}

// AverageGradePercentage is the mean of each grade's percentage, 0 for no grades.
func AverageGradePercentage(grades []*Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Percentage()
	}
	return sum / float64(len(grades))
}

// SystemCounts backs the admin dashboard.
type SystemCounts struct {
	Users      int64 `json:"users"`
	Students   int64 `json:"students"`
	Teachers   int64 `json:"teachers"`
	Modules    int64 `json:"modules"`
	Grades     int64 `json:"grades"`
	Attendance int64 `json:"attendance"`
}

// AllModels lists every persisted entity in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Student{},
		&Teacher{},
		&Module{},
		&Attendance{},
		&Grade{},
		&Notification{},
	}
}
