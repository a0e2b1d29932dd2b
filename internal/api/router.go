package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sharemyrevenue/account-service/internal/api/handler"
	"github.com/sharemyrevenue/account-service/internal/api/middleware"
	"github.com/sharemyrevenue/account-service/internal/core/domain"
	"github.com/sharemyrevenue/account-service/internal/core/service"
	"github.com/sharemyrevenue/account-service/internal/infrastructure/config"
	mongodb "github.com/sharemyrevenue/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/sharemyrevenue/account-service/internal/infrastructure/db/redis"
	"github.com/sharemyrevenue/account-service/internal/infrastructure/notify"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, client *mongo.Client, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	roles := mongodb.NewRoleRepository(db)
	tx := mongodb.NewTransactor(client)
	attempts := redisdb.NewRegistrationAttemptStore(rdb)

	tokens := service.NewTokenManager(tokenRepo, log)
	guard := service.NewRegistrationGuard(attempts, cfg.RegistrationMaxPerDay, log)
	catalog := service.NewRoleCatalog(roles)

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	sms := notify.NewSMSGateway(notify.SMSConfig{
		GatewayURL: cfg.SMS.GatewayURL,
		APIKey:     cfg.SMS.APIKey,
		Sender:     cfg.SMS.Sender,
	})

	adminPhones := make([]string, 0, 2)
	for _, p := range []string{cfg.AdminPhone1, cfg.AdminPhone2} {
		if p != "" {
			adminPhones = append(adminPhones, p)
		}
	}

	accounts := service.NewAccountService(users, tokens, guard, catalog, mailer, sms, tx, service.AccountSettings{
		AppName:     cfg.AppName,
		BaseAPIURL:  cfg.BaseAPIURL,
		AdminPhones: adminPhones,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
	}, log)

	authHandler := handler.NewAuthHandler(accounts)
	recoveryHandler := handler.NewRecoveryHandler(accounts, tokens)
	userHandler := handler.NewUserHandler(accounts)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/verify/request", recoveryHandler.RequestVerification)
	e.GET("/auth/verify", recoveryHandler.CheckToken)
	e.POST("/auth/password/forgot", recoveryHandler.ForgotPassword)
	e.POST("/auth/password/reset", recoveryHandler.ResetPassword)

	// --- Account management (admin unless noted) ---
	usersGroup := e.Group("/users", authRequired)
	usersGroup.GET("", userHandler.List, adminOnly)
	usersGroup.GET("/search", userHandler.List, adminOnly)
	usersGroup.GET("/:id", userHandler.Get, adminOnly)
	usersGroup.PUT("/:id/role", userHandler.ChangeRole, adminOnly)
	usersGroup.PUT("/:id/roles", userHandler.SetRoles, adminOnly)
	usersGroup.PUT("/:id/password", userHandler.SetPassword, adminOnly)
	usersGroup.POST("/:id/password", userHandler.ChangePassword) // self service

	e.DELETE("/tokens/:id", recoveryHandler.DeleteToken, authRequired, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
