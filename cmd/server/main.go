package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/taskshare/backend/internal/config"
	"github.com/taskshare/backend/internal/database"
	"github.com/taskshare/backend/internal/handlers"
	"github.com/taskshare/backend/internal/middleware"
	"github.com/taskshare/backend/internal/services"
	"github.com/taskshare/backend/pkg/logger"
	"github.com/taskshare/backend/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	accessService := services.NewAccessService(db)
	notifier := services.NewEmailNotifier(cfg.Mail)
	grantService := services.NewGrantService(db, accessService, notifier)

	authHandler := handlers.NewAuthHandler(db)
	usersHandler := handlers.NewUsersHandler(db)
	objectivesHandler := handlers.NewObjectivesHandler(db, accessService)
	grantsHandler := handlers.NewGrantsHandler(grantService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	api.Get("/users/search", authMiddleware.RequireAuth, usersHandler.Search)

	userRoutes := api.Group("/users", authMiddleware.RequireAuth, middleware.AdminOnly)
	userRoutes.Get("/", usersHandler.List)
	userRoutes.Get("/:id", usersHandler.Get)
	userRoutes.Put("/:id", usersHandler.Update)
	userRoutes.Delete("/:id", usersHandler.Delete)

	objectiveRoutes := api.Group("/objectives", authMiddleware.RequireAuth)
	objectiveRoutes.Post("/", objectivesHandler.Create)
	objectiveRoutes.Get("/", objectivesHandler.List)
	objectiveRoutes.Post("/:id/share", grantsHandler.Share)
	objectiveRoutes.Get("/:id/grants", grantsHandler.List)
	objectiveRoutes.Delete("/:id/grants/:userId", grantsHandler.Revoke)
	objectiveRoutes.Get("/:id", objectivesHandler.Get)
	objectiveRoutes.Patch("/:id", objectivesHandler.Update)
	objectiveRoutes.Delete("/:id", objectivesHandler.Delete)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
