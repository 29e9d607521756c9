package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dverenik/coursegrade/api/swagger"
	"github.com/dverenik/coursegrade/internal/handler"
	"github.com/dverenik/coursegrade/internal/middleware"
	"github.com/dverenik/coursegrade/internal/repository"
	"github.com/dverenik/coursegrade/internal/service"
	"github.com/dverenik/coursegrade/internal/session"
	"github.com/dverenik/coursegrade/internal/web"
	"github.com/dverenik/coursegrade/pkg/cache"
	"github.com/dverenik/coursegrade/pkg/config"
	"github.com/dverenik/coursegrade/pkg/database"
	"github.com/dverenik/coursegrade/pkg/logger"
	corsmiddleware "github.com/dverenik/coursegrade/pkg/middleware/cors"
	reqidmiddleware "github.com/dverenik/coursegrade/pkg/middleware/requestid"
)

// @title Course Grade API
// @version 1.0.0
// @description Courses, students, enrollments and reviews
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "coursegrade",
	})
	courseService := service.NewCourseService(courseRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, validate, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, studentRepo, validate, logr)
	reviewService := service.NewReviewService(reviewRepo, courseRepo, studentRepo, validate, logr)
	exportService := service.NewExportService(courseRepo, reviewRepo, logr)
	metricsService := service.NewMetricsService()

	sessions := session.NewStore(redisClient, cfg.Session.TTL)

	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, reviewService)
	studentHandler := handler.NewStudentHandler(studentService, enrollmentService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	pages := web.NewHandler(authService, courseService, studentService, reviewService,
		enrollmentService, sessions, metricsService, cfg.Session, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		AllowedMethods: cfg.CORS.AllowedMethods,
	}))
	r.Use(middleware.Metrics(metricsService))

	r.SetHTMLTemplate(web.Templates())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		protected := api.Group("")
		protected.Use(middleware.JWT(authService))
		{
			protected.GET("/courses", courseHandler.List)
			protected.POST("/courses", courseHandler.Create)
			protected.GET("/courses/:id", courseHandler.Get)
			protected.PUT("/courses/:id", courseHandler.Update)
			protected.PATCH("/courses/:id", courseHandler.Patch)
			protected.DELETE("/courses/:id", courseHandler.Delete)
			protected.GET("/courses/:id/students", courseHandler.Students)
			protected.GET("/courses/:id/reviews", courseHandler.Reviews)
			if cfg.Export.Enabled {
				protected.GET("/courses/:id/reviews/export", exportHandler.CourseReviews)
			}

			protected.GET("/students", studentHandler.List)
			protected.POST("/students", studentHandler.Create)
			protected.GET("/students/:id", studentHandler.Get)
			protected.PUT("/students/:id", studentHandler.Update)
			protected.PATCH("/students/:id", studentHandler.Patch)
			protected.DELETE("/students/:id", studentHandler.Delete)
			protected.GET("/students/:id/courses", studentHandler.Courses)

			protected.GET("/reviews", reviewHandler.List)
			protected.POST("/reviews", reviewHandler.Create)
			protected.GET("/reviews/:id", reviewHandler.Get)
			protected.PUT("/reviews/:id", reviewHandler.Update)
			protected.PATCH("/reviews/:id", reviewHandler.Patch)
			protected.DELETE("/reviews/:id", reviewHandler.Delete)

			protected.GET("/coursetostudents", enrollmentHandler.List)
			protected.POST("/coursetostudents", enrollmentHandler.Create)
			protected.GET("/coursetostudents/:id", enrollmentHandler.Get)
			protected.PUT("/coursetostudents/:id", enrollmentHandler.Update)
			protected.PATCH("/coursetostudents/:id", enrollmentHandler.Patch)
			protected.DELETE("/coursetostudents/:id", enrollmentHandler.Delete)
		}
	}

	r.Use(middleware.Session(sessions, authService, cfg.Session))

	r.GET("/", pages.Main)
	r.GET("/register/", pages.RegisterForm)
	r.POST("/register/", pages.Register)
	r.GET("/login/", pages.LoginForm)
	r.POST("/login/", pages.Login)
	r.GET("/logout/", pages.Logout)

	site := r.Group("")
	site.Use(middleware.LoginRequired())
	{
		site.GET("/courses/", pages.Courses)
		site.GET("/course/:id/", pages.CourseDetail)
		site.GET("/create_course/", pages.CreateCourseForm)
		site.POST("/create_course/", pages.CreateCourse)
		site.GET("/edit_course/:id/", pages.EditCourseForm)
		site.POST("/edit_course/:id/", pages.EditCourse)
		site.GET("/delete_course/:id/", pages.DeleteCourse)
		site.GET("/enroll_course/:id/", pages.Enroll)
		site.GET("/unenroll_course/:id/", pages.Unenroll)
		site.GET("/course/:id/students/", pages.CourseStudents)
		site.GET("/course/:id/reviews/", pages.CourseReviews)

		site.GET("/students/", pages.Students)
		site.GET("/student/:id/", pages.StudentDetail)
		site.GET("/create_student/", pages.CreateStudentForm)
		site.POST("/create_student/", pages.CreateStudent)
		site.GET("/edit_student/:id/", pages.EditStudentForm)
		site.POST("/edit_student/:id/", pages.EditStudent)
		site.GET("/delete_student/:id/", pages.DeleteStudent)
		site.GET("/student/:id/courses/", pages.StudentCourses)

		site.GET("/reviews/", pages.Reviews)
		site.GET("/review/:id/", pages.ReviewDetail)
		site.GET("/create_review/:id/", pages.CreateReviewForm)
		site.POST("/create_review/:id/", pages.CreateReview)
		site.GET("/edit_review/:id/", pages.EditReviewForm)
		site.POST("/edit_review/:id/", pages.EditReview)
		site.GET("/delete_review/:id/", pages.DeleteReview)

		site.GET("/coursestostudents/", pages.Enrollments)
		site.GET("/coursetostudent/:id/", pages.EnrollmentDetail)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
