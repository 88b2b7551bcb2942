package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy *AccessPolicy
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, policy *AccessPolicy) DashboardService {
	return &dashboardService{repo: repo, logger: logger, policy: policy}
}

func (s *dashboardService) Student(ctx context.Context, p *Principal) (*StudentDashboardResponse, error) {
	if err := s.policy.Authorize(p, ActionDashboardStudent, nil); err != nil {
		return nil, err
	}
	studentID := p.Student.ID

	grades, err := s.repo.Grade().ListByStudent(ctx, studentID, repositories.DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent grades: %w", err)
	}
	attendance, err := s.repo.Attendance().ListByStudent(ctx, studentID, repositories.DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent attendance: %w", err)
	}
	unread, err := s.repo.Notification().CountUnread(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	modules, err := s.repo.Module().CountByGradeLevel(ctx, p.Student.GradeLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to count modules: %w", err)
	}

	return &StudentDashboardResponse{
		Student:          p.Student,
		RecentGrades:     grades,
		RecentAttendance: attendance,
		UnreadCount:      unread,
		ModuleCount:      modules,
	}, nil
}

func (s *dashboardService) Teacher(ctx context.Context, p *Principal) (*TeacherDashboardResponse, error) {
	if err := s.policy.Authorize(p, ActionDashboardTeacher, nil); err != nil {
		return nil, err
	}
	teacherID := p.Teacher.ID

	moduleCount, err := s.repo.Module().CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to count modules: %w", err)
	}
	students, err := s.repo.Student().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	recent, err := s.repo.Module().ListByTeacher(ctx, teacherID, repositories.DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent modules: %w", err)
	}

	return &TeacherDashboardResponse{
		Teacher:       p.Teacher,
		ModuleCount:   moduleCount,
		TotalStudents: students,
		RecentModules: recent,
	}, nil
}

func (s *dashboardService) Admin(ctx context.Context, p *Principal) (*AdminDashboardResponse, error) {
	if err := s.policy.Authorize(p, ActionDashboardAdmin, nil); err != nil {
		return nil, err
	}

	counts, err := s.repo.Dashboard().GetSystemCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get system counts: %w", err)
	}
	return &AdminDashboardResponse{User: p.User, Counts: counts}, nil
}
