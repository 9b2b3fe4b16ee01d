package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"carelink/api/internal/config"
	"carelink/api/internal/llm"
	"carelink/api/internal/middleware"
	"carelink/api/internal/models"
	"carelink/api/internal/repository"
	"carelink/api/internal/security"
	"carelink/api/internal/service"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	db       *pgxpool.Pool
	cache    *redis.Client
	codec    *security.TokenCodec
	auth     *service.AuthService
	patients *service.PatientService
	doctors  *service.DoctorService
	notes    *service.NoteService
	users    middleware.UserLoader
	sessions middleware.SessionLoader
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	codec := security.NewTokenCodec(cfg.Security)
	extractor := llm.NewGeminiExtractor(cfg.LLM)

	auth := service.NewAuthService(userRepo, sessionRepo, verificationRepo, codec, cfg.Security, log)
	patients := service.NewPatientService(userRepo, assignmentRepo, cache, log)
	doctors := service.NewDoctorService(assignmentRepo)
	notes := service.NewNoteService(noteRepo, extractor, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		db:       db,
		cache:    cache,
		codec:    codec,
		auth:     auth,
		patients: patients,
		doctors:  doctors,
		notes:    notes,
		users:    userRepo,
		sessions: sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		protected := v1.Group("/auth")
		protected.Use(middleware.Authenticate(h.codec, h.users, h.sessions))
		protected.GET("/me", h.Me)
	}

	gate := middleware.Authenticate(h.codec, h.users, h.sessions)

	patient := v1.Group("/patient")
	patient.Use(gate)
	patient.GET("/doctors", h.AvailableDoctors)
	patient.POST("/doctor",
		middleware.RequireRole(models.UserRolePatient, "Only patients can select a doctor"),
		h.SelectDoctor)
	patient.GET("/doctor",
		middleware.RequireRole(models.UserRolePatient, "Only patients have a selected doctor"),
		h.MyDoctor)

	doctor := v1.Group("/doctor")
	doctor.Use(gate, middleware.RequireRole(models.UserRoleDoctor, "You're not a doctor"))
	doctor.GET("/patients", h.Patients)

	notes := v1.Group("/notes")
	notes.Use(gate)
	notes.POST("",
		middleware.RequireRole(models.UserRoleDoctor, "Only doctors can create note tasks"),
		h.CreateNoteTask)
	notes.GET("/tasks",
		middleware.RequireRole(models.UserRolePatient, "Only patients can view tasks"),
		h.MyTasks)
}
