package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-portal-service/internal/cache"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// dryRunDB builds statements with the postgres dialect without connecting.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestUpsertAttendance_Statement(t *testing.T) {
	recorder := uint(7)
	attendance := &models.Attendance{
		StudentID:  3,
		Date:       datatypes.Date(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		Status:     models.AttendancePresent,
		RecordedBy: &recorder,
	}

	sql := upsertAttendance(dryRunDB(t), attendance).Statement.SQL.String()

	assert.Contains(t, sql, `INSERT INTO "attendances"`)
	assert.Contains(t, sql, `ON CONFLICT ("student_id","date") DO UPDATE SET`)
	for _, col := range []string{"status", "notes", "recorded_by", "updated_at"} {
		assert.Contains(t, sql, `"`+col+`"="excluded"."`+col+`"`)
	}
	assert.NotContains(t, sql, `"created_at"="excluded"`, "created_at must survive updates")
	assert.Contains(t, sql, `RETURNING "id","created_at"`)
}

func TestModuleListByGradeLevel_ShortListTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cm := cache.NewCacheManager(client)

	repo := &modulePostgreSQL{base: newBase(dryRunDB(t), cm, nil)}
	_, err := repo.ListByGradeLevel(context.Background(), "5")
	require.NoError(t, err)

	key := cm.Module.GetCacheKey(cache.ModuleGradeListKey("5"))
	require.True(t, mr.Exists(key))
	assert.Equal(t, cache.ModuleListTTL, mr.TTL(key))
	assert.Less(t, cache.ModuleListTTL, cache.ModuleCacheConfig.TTL)
}
