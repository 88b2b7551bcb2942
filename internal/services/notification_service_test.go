package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
)

func TestNotificationService_SendAndView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")
	svc := env.manager.Notification()

	sent, err := svc.Send(ctx, teacher, &SendNotificationRequest{
		StudentID: student.Student.ID, Title: "  Field trip  ", Message: "Bring lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, "Field trip", sent.Title)
	assert.False(t, sent.Read)
	assert.Len(t, env.publisher.EventsOfType(events.NotificationCreated), 1)

	unread, err := svc.UnreadCountForStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	viewed, err := svc.ViewForStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, viewed, 1)
	assert.False(t, viewed[0].Read, "view returns the state before marking read")

	unread, err = svc.UnreadCountForStudent(ctx, student)
	require.NoError(t, err)
	assert.Zero(t, unread)

	again, err := svc.ViewForStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.True(t, again[0].Read)

	list, err := svc.ListSent(ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationService_MarkAllReadIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")
	other := env.repo.addStudent("other", "5")
	svc := env.manager.Notification()

	for _, s := range []*Principal{student, student, other} {
		_, err := svc.Send(ctx, teacher, &SendNotificationRequest{StudentID: s.Student.ID, Title: "Hi", Message: "msg"})
		require.NoError(t, err)
	}

	n, err := svc.MarkAllReadForStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.MarkAllReadForStudent(ctx, student)
	require.NoError(t, err)
	assert.Zero(t, n)

	unread, err := svc.UnreadCountForStudent(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread, "other students are untouched")
}

func TestNotificationService_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.repo.addTeacher("mr_t")
	student := env.repo.addStudent("sam", "5")
	svc := env.manager.Notification()

	_, err := svc.Send(ctx, teacher, &SendNotificationRequest{StudentID: student.Student.ID, Title: " ", Message: "x"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Send(ctx, teacher, &SendNotificationRequest{StudentID: 404, Title: "Hi", Message: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Send(ctx, student, &SendNotificationRequest{StudentID: student.Student.ID, Title: "Hi", Message: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ViewForStudent(ctx, teacher)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ViewForStudent(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
