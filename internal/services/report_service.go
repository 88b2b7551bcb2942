package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

const (
	gradebookSheet = "Grades"
	// maxImportRows bounds a single attendance import.
	maxImportRows = 5000
)

var gradebookHeader = []interface{}{"Student", "Module", "Subject", "Score", "Max Score", "Percentage", "Date", "Comments"}

var attendanceImportHeader = []string{"student_id", "date", "status", "notes"}

type reportService struct {
	logger     *slog.Logger
	policy     *AccessPolicy
	grades     GradeService
	attendance AttendanceService
}

func NewReportService(logger *slog.Logger, policy *AccessPolicy, grades GradeService, attendance AttendanceService) ReportService {
	return &reportService{
		logger:     logger,
		policy:     policy,
		grades:     grades,
		attendance: attendance,
	}
}

// ExportGradebook writes an xlsx workbook with one row per grade on the
// teacher's modules.
func (s *reportService) ExportGradebook(ctx context.Context, p *Principal, w io.Writer) error {
	if err := s.policy.Authorize(p, ActionReportExportGrades, nil); err != nil {
		return err
	}

	grades, err := s.grades.ListForTeacher(ctx, p)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), gradebookSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(gradebookSheet, "A1", &gradebookHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, g := range grades {
		var studentName, moduleTitle, subject string
		if g.Student != nil {
			studentName = g.Student.FullName()
		}
		if g.Module != nil {
			moduleTitle = g.Module.Title
			subject = g.Module.Subject
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			studentName,
			moduleTitle,
			subject,
			g.Score,
			g.MaxScore,
			g.Percentage(),
			g.Date.Format(validator.DateLayout),
			g.Comments,
		}
		if err := f.SetSheetRow(gradebookSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Gradebook exported", "teacher_id", p.Teacher.ID, "rows", len(grades))
	return nil
}

// ImportAttendance records one attendance row per sheet row. Bad rows are
// reported and skipped.
func (s *reportService) ImportAttendance(ctx context.Context, p *Principal, r io.Reader) (*AttendanceImportResult, error) {
	if err := s.policy.Authorize(p, ActionReportImportAttendance, nil); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewValidationError("file", "must be an xlsx workbook", nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 || !matchesHeader(rows[0], attendanceImportHeader) {
		return nil, NewValidationError("file", "header must be "+strings.Join(attendanceImportHeader, ", "), nil)
	}
	if len(rows)-1 > maxImportRows {
		return nil, NewValidationError("file", fmt.Sprintf("at most %d rows per import", maxImportRows), len(rows)-1)
	}

	result := &AttendanceImportResult{Errors: []ImportRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := attendanceRowRequest(row)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		recorded, err := s.attendance.Record(ctx, p, req)
		if err != nil {
			var nf *NotFoundError
			var ve ValidationErrors
			if !errors.As(err, &nf) && !errors.As(err, &ve) {
				return nil, err
			}
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if recorded.Created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("Attendance imported",
		"teacher_id", p.Teacher.ID,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func attendanceRowRequest(row []string) (*RecordAttendanceRequest, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	studentID, err := strconv.ParseUint(cell(0), 10, 64)
	if err != nil || studentID == 0 {
		return nil, fmt.Errorf("invalid student_id %q", cell(0))
	}

	return &RecordAttendanceRequest{
		StudentID: uint(studentID),
		Date:      cell(1),
		Status:    cell(2),
		Notes:     cell(3),
	}, nil
}

func matchesHeader(row []string, want []string) bool {
	if len(row) < len(want) {
		return false
	}
	for i, h := range want {
		if !strings.EqualFold(strings.TrimSpace(row[i]), h) {
			return false
		}
	}
	return true
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
