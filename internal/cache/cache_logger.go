package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// Module cache keys.
func ModuleGradeListKey(gradeLevel string) string  { return fmt.Sprintf("grade:%s:list", gradeLevel) }
func ModuleGradeCountKey(gradeLevel string) string { return fmt.Sprintf("grade:%s:count", gradeLevel) }
func ModuleTeacherCountKey(teacherID uint) string  { return fmt.Sprintf("teacher:%d:count", teacherID) }

// Stats cache keys.
const StudentCountKey = "students:count"

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateModuleCache drops every cached view a new module can change.
func InvalidateModuleCache(ctx context.Context, cm *CacheManager, gradeLevel string, teacherID uint) {
	if !cm.Enabled() {
		return
	}
	SafeInvalidatePattern(ctx, cm.Module, fmt.Sprintf("grade:%s:*", gradeLevel))
	SafeDelete(ctx, cm.Module, ModuleTeacherCountKey(teacherID))
}

// InvalidateStudentCountCache drops the cached student total.
func InvalidateStudentCountCache(ctx context.Context, cm *CacheManager) {
	if !cm.Enabled() {
		return
	}
	SafeDelete(ctx, cm.Stats, StudentCountKey)
}
