package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/middleware"
	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
	"github.com/dverenik/coursegrade/pkg/config"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

// sessionStore is the part of session.Store the pages use.
type sessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, sid string) error
}

// pageSize caps how many rows the list pages pull. There is no paging
// UI, mirroring the plain list pages this layer serves.
const pageSize = 100

// Handler serves the HTML pages.
type Handler struct {
	auth        *service.AuthService
	courses     *service.CourseService
	students    *service.StudentService
	reviews     *service.ReviewService
	enrollments *service.EnrollmentService
	sessions    sessionStore
	metrics     *service.MetricsService
	sessionCfg  config.SessionConfig
	logger      *zap.Logger
}

// NewHandler constructs the page handler.
func NewHandler(
	auth *service.AuthService,
	courses *service.CourseService,
	students *service.StudentService,
	reviews *service.ReviewService,
	enrollments *service.EnrollmentService,
	sessions sessionStore,
	metrics *service.MetricsService,
	sessionCfg config.SessionConfig,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		auth:        auth,
		courses:     courses,
		students:    students,
		reviews:     reviews,
		enrollments: enrollments,
		sessions:    sessions,
		metrics:     metrics,
		sessionCfg:  sessionCfg,
		logger:      logger,
	}
}

// Main renders the landing page.
func (h *Handler) Main(c *gin.Context) {
	c.HTML(http.StatusOK, "main.html", gin.H{"User": middleware.SessionUser(c)})
}

// actor returns the session user as an authorization actor.
func actor(c *gin.Context) *models.AuthActor {
	return middleware.SessionUser(c).Actor()
}

// errMessage extracts the user-facing message for inline rendering.
func errMessage(err error) string {
	return appErrors.FromError(err).Message
}

// isNoProfile reports whether err is the missing-student-profile rule.
func isNoProfile(err error) bool {
	return appErrors.FromError(err).Code == appErrors.ErrPreconditionFailed.Code
}

func listFilter() models.ListFilter {
	return models.ListFilter{Page: 1, PageSize: pageSize}
}
