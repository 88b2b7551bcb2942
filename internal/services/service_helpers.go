package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
)

// publishEvent sends a domain event after commit. Failures are logged only;
// the committed row stays the source of truth.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	event := events.NewEvent(eventType, data)
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", "event_type", eventType, "event_id", event.ID, "error", err)
	}
}

func getStudent(ctx context.Context, repo repositories.Repository, id uint) (*models.Student, error) {
	student, err := repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", id)
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return student, nil
}

func getModule(ctx context.Context, repo repositories.Repository, id uint) (*models.Module, error) {
	module, err := repo.Module().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("module", id)
		}
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	return module, nil
}
