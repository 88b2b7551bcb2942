package handlers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stubIdentity resolves principals from fixed maps.
type stubIdentity struct {
	byID       map[uint]*services.Principal
	byUsername map[string]*services.Principal
	resolveErr error
}

func newStubIdentity(principals ...*services.Principal) *stubIdentity {
	s := &stubIdentity{
		byID:       map[uint]*services.Principal{},
		byUsername: map[string]*services.Principal{},
	}
	for _, p := range principals {
		s.byID[p.User.ID] = p
		s.byUsername[p.User.Username] = p
	}
	return s
}

func (s *stubIdentity) Register(ctx context.Context, req *services.RegisterRequest) (*services.Principal, error) {
	return nil, services.ErrForbidden
}

func (s *stubIdentity) Authenticate(ctx context.Context, req *services.LoginRequest) (*services.LoginResponse, error) {
	return nil, services.ErrInvalidCredentials
}

func (s *stubIdentity) ResolvePrincipal(ctx context.Context, userID uint) (*services.Principal, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	if p, ok := s.byID[userID]; ok {
		return p, nil
	}
	return nil, services.ErrUnauthenticated
}

func (s *stubIdentity) ResolvePrincipalByUsername(ctx context.Context, username string) (*services.Principal, error) {
	if p, ok := s.byUsername[username]; ok {
		return p, nil
	}
	return nil, services.ErrUnauthenticated
}

func (s *stubIdentity) Bootstrap(ctx context.Context) (bool, error) { return false, nil }

func studentPrincipal(id uint, username string) *services.Principal {
	return &services.Principal{
		User:    &models.User{ID: id, Username: username, Role: models.RoleStudent},
		Student: &models.Student{ID: id + 100, UserID: id, GradeLevel: "5"},
	}
}

func teacherPrincipal(id uint, username string) *services.Principal {
	return &services.Principal{
		User:    &models.User{ID: id, Username: username, Role: models.RoleTeacher},
		Teacher: &models.Teacher{ID: id + 100, UserID: id},
	}
}

func adminPrincipal(id uint, username string) *services.Principal {
	return &services.Principal{User: &models.User{ID: id, Username: username, Role: models.RoleAdmin}}
}

// withPrincipal injects p the way Authenticate would.
func withPrincipal(p *services.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(contextKeyPrincipal, p)
		}
		c.Next()
	}
}
