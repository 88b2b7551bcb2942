package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

const serviceName = "school-portal-service"

type HandlerManager struct {
	serviceManager   services.ServiceManager
	authHandler      *AuthHandler
	dashboardHandler *DashboardHandler
	studentHandler   *StudentHandler
	teacherHandler   *TeacherHandler
	aiHandler        *AIHandler
	fileHandler      *FileHandler
	authMiddleware   *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *AuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		serviceManager:   serviceManager,
		authHandler:      NewAuthHandler(serviceManager.Identity(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		studentHandler:   NewStudentHandler(serviceManager, logger),
		teacherHandler:   NewTeacherHandler(serviceManager, logger),
		aiHandler:        NewAIHandler(serviceManager.Assistant(), logger),
		fileHandler:      NewFileHandler(serviceManager.Module(), logger),
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	authenticated := hm.authMiddleware.Authenticate()

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", hm.authHandler.Register)
		authGroup.POST("/login", hm.authHandler.Login)
		authGroup.GET("/me", authenticated, hm.authHandler.Me)
	}

	v1 := router.Group("/api/v1")
	v1.Use(authenticated)
	{
		// Student routes - Students only
		student := v1.Group("/student")
		student.Use(hm.authMiddleware.RequireRole(models.RoleStudent))
		{
			student.GET("/dashboard", hm.dashboardHandler.StudentDashboard)
			student.GET("/modules", hm.studentHandler.GetModules)
			student.GET("/grades", hm.studentHandler.GetGrades)
			student.GET("/attendance", hm.studentHandler.GetAttendance)
			student.GET("/notifications", hm.studentHandler.GetNotifications)
		}

		// Teacher routes - Teachers only
		teacher := v1.Group("/teacher")
		teacher.Use(hm.authMiddleware.RequireRole(models.RoleTeacher))
		{
			teacher.GET("/dashboard", hm.dashboardHandler.TeacherDashboard)

			teacher.GET("/modules", hm.teacherHandler.ListModules)
			teacher.POST("/modules", hm.teacherHandler.CreateModule)

			teacher.GET("/grades", hm.teacherHandler.ListGrades)
			teacher.POST("/grades", hm.teacherHandler.SubmitGrade)
			teacher.GET("/grades/export", hm.teacherHandler.ExportGrades)

			teacher.GET("/attendance", hm.teacherHandler.ListAttendance)
			teacher.POST("/attendance", hm.teacherHandler.RecordAttendance)
			teacher.POST("/attendance/import", hm.teacherHandler.ImportAttendance)

			teacher.GET("/notifications", hm.teacherHandler.ListNotifications)
			teacher.POST("/notifications", hm.teacherHandler.SendNotification)

			teacher.GET("/students", hm.teacherHandler.ListStudents)
		}

		// Admin routes - Admins only
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/dashboard", hm.dashboardHandler.AdminDashboard)
		}
	}

	ai := router.Group("/api/ai")
	ai.Use(authenticated)
	{
		ai.POST("/text_to_speech", hm.aiHandler.TextToSpeech)
		ai.POST("/speech_to_text", hm.aiHandler.SpeechToText)
		ai.POST("/speech_to_speech_translation", hm.aiHandler.SpeechToSpeechTranslation)
		ai.POST("/text_to_image", hm.aiHandler.TextToImage)
		ai.POST("/educational_assistant", hm.aiHandler.EducationalAssistant)
	}

	router.GET("/files/:name", authenticated, hm.fileHandler.ServeFile)

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
