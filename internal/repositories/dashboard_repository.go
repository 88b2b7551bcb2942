package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// DashboardRepository answers the aggregate queries behind the admin dashboard.
type DashboardRepository interface {
	GetSystemCounts(ctx context.Context) (*models.SystemCounts, error)
}
