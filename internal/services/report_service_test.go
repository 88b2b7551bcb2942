package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func attendanceWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReportService_ExportGradebook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	other := env.repo.addTeacher("ms_o")
	student := env.repo.addStudent("sam", "5")
	mine := env.repo.addModule(teacher, "Fractions", "5")
	theirs := env.repo.addModule(other, "Poetry", "5")

	_, err := env.manager.Grade().Submit(ctx, teacher, &SubmitGradeRequest{
		StudentID: student.Student.ID, ModuleID: mine.ID, Score: 18, MaxScore: 20, Comments: "neat",
	})
	require.NoError(t, err)
	_, err = env.manager.Grade().Submit(ctx, other, &SubmitGradeRequest{
		StudentID: student.Student.ID, ModuleID: theirs.ID, Score: 1, MaxScore: 2,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.manager.Report().ExportGradebook(ctx, teacher, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Grades")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Student", "Module", "Subject", "Score", "Max Score", "Percentage", "Date", "Comments"}, rows[0])
	assert.Equal(t, "sam Student", rows[1][0])
	assert.Equal(t, "Fractions", rows[1][1])
	assert.Equal(t, "18", rows[1][3])
	assert.Equal(t, "90", rows[1][5])
	assert.Equal(t, "neat", rows[1][7])

	err = env.manager.Report().ExportGradebook(ctx, student, &buf)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReportService_ImportAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")

	_, err := env.manager.Attendance().Record(ctx, teacher, &RecordAttendanceRequest{
		StudentID: student.Student.ID, Date: "2024-03-01", Status: "absent",
	})
	require.NoError(t, err)

	id := student.Student.ID
	book := attendanceWorkbook(t, [][]interface{}{
		{"Student_ID", "Date", "Status", "Notes"},
		{id, "2024-03-01", "present", "arrived after all"},
		{id, "2024-03-02", "late", ""},
		{},
		{"abc", "2024-03-03", "present", ""},
		{id, "2024-03-04", "sleeping", ""},
		{9999, "2024-03-05", "present", ""},
	})

	result, err := env.manager.Report().ImportAttendance(ctx, teacher, book)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Equal(t, 6, result.Errors[1].Row)
	assert.Equal(t, 7, result.Errors[2].Row)

	_, _, attendance, _ := env.repo.counts()
	assert.Equal(t, 2, attendance)
}

func TestReportService_ImportRejectsBadWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.repo.addTeacher("mr_t")

	_, err := env.manager.Report().ImportAttendance(ctx, teacher, bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, ErrValidationFailed)

	book := attendanceWorkbook(t, [][]interface{}{{"id", "when"}})
	_, err = env.manager.Report().ImportAttendance(ctx, teacher, book)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
