package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

func TestAttendanceService_UpsertKeepsOneRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")

	first, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-03-01", Status: "absent", Notes: "sick",
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-03-01", Status: "Late", Notes: "bus",
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Attendance.ID, second.Attendance.ID)

	_, _, attendance, _ := env.repo.counts()
	assert.Equal(t, 1, attendance)

	resp, err := env.manager.Attendance().ListForStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, models.AttendanceLate, resp.Records[0].Status)
	assert.Equal(t, "bus", resp.Records[0].Notes)

	recorded := env.publisher.EventsOfType(events.AttendanceRecorded)
	require.Len(t, recorded, 2)
	assert.True(t, recorded[0].Data.(events.AttendanceRecordedData).Created)
	assert.False(t, recorded[1].Data.(events.AttendanceRecordedData).Created)
}

func TestAttendanceService_Rate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")

	resp, err := env.manager.Attendance().ListForStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.AttendanceRate)
	assert.Zero(t, resp.Counts.Total)

	for i, status := range []string{"present", "present", "present", "absent"} {
		_, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
			StudentID: student.Student.ID, Date: fmt.Sprintf("2024-03-0%d", i+1), Status: status,
		})
		require.NoError(t, err)
	}

	resp, err = env.manager.Attendance().ListForStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 75.0, resp.AttendanceRate)
	assert.Equal(t, models.AttendanceCounts{Present: 3, Absent: 1, Total: 4}, resp.Counts)
	assert.Equal(t, "2024-03-04", time.Time(resp.Records[0].Date).Format("2006-01-02"))
}

func TestAttendanceService_RecordErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")

	_, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-03-01", Status: "asleep",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "03/01/2024", Status: "present",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: 999, Date: "2024-03-01", Status: "present",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.manager.Attendance().Record(ctx, student, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-03-01", Status: "present",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, attendance, _ := env.repo.counts()
	assert.Zero(t, attendance)
}

func TestAttendanceService_ListRecordedByLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	other := env.repo.addTeacher("ms_o")
	student := env.repo.addStudent("sam", "5")

	for day := 1; day <= 25; day++ {
		_, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
			StudentID: student.Student.ID, Date: fmt.Sprintf("2024-01-%02d", day), Status: "present",
		})
		require.NoError(t, err)
	}
	_, err := env.manager.Attendance().Record(ctx, other, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-02-01", Status: "late",
	})
	require.NoError(t, err)

	rows, err := env.manager.Attendance().ListRecordedBy(ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, rows, 20)
	for _, r := range rows {
		assert.Equal(t, teacher.Teacher.ID, *r.RecordedBy)
	}
}
