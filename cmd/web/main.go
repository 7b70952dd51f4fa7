package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"eau-clair-web/internal/cache"
	"eau-clair-web/internal/config"
	"eau-clair-web/internal/handler"
	"eau-clair-web/internal/mailer"
	"eau-clair-web/internal/middleware"
	"eau-clair-web/internal/model"
	"eau-clair-web/internal/repository"
	"eau-clair-web/internal/service"
	"eau-clair-web/internal/upload"
	"eau-clair-web/internal/view"
	"eau-clair-web/internal/ws"
	"eau-clair-web/pkg/database"
	"eau-clair-web/pkg/jwt"
	"eau-clair-web/pkg/logger"
	"eau-clair-web/pkg/supabase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Logging
	zlog, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	// 3. Setup Database
	db, err := database.ConnectDB(database.DSN())
	if err != nil {
		zap.L().Fatal("connect database", zap.Error(err))
	}
	// Tables normally belong to the backend project; migrate only for local setups.
	if cast.ToBool(os.Getenv("DB_AUTO_MIGRATE")) {
		if err := db.AutoMigrate(&model.Product{}, &model.Profile{}); err != nil {
			zap.L().Fatal("auto migrate", zap.Error(err))
		}
	}

	// 4. Backend, cache, feed
	backend := supabase.New(supabase.Options{
		URL:        cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		ServiceKey: cfg.SupabaseServiceKey,
		Verifier:   jwt.NewVerifier(cfg.SupabaseJWTSecret),
	})

	redisClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer redisClient.Close()
	pageCache := cache.NewPageCache(redisClient, cfg.PageCacheTTL)

	wsHub := ws.NewHub()
	go wsHub.Run()

	var mail mailer.WelcomeSender = mailer.Noop{}
	if cfg.MailEnabled() {
		m, err := mailer.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom, cfg.AppName)
		if err != nil {
			zap.L().Fatal("init mailer", zap.Error(err))
		}
		mail = m
	}

	renderer, err := view.New()
	if err != nil {
		zap.L().Fatal("parse templates", zap.Error(err))
	}

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	profileRepo := repository.NewProfileRepo(db)

	catalogService := service.NewCatalogService(productRepo)
	adminService := service.NewAdminService(productRepo, pageCache, wsHub)
	authService := service.NewAuthService(backend, profileRepo, mail, cfg.SiteURL)

	pageHandler := handler.NewPageHandler(catalogService, renderer)
	authHandler := handler.NewAuthHandler(authService, renderer, cfg.CookieSecure)
	adminHandler := handler.NewAdminHandler(adminService, renderer)
	uploadHandler := handler.NewUploadHandler(upload.NewUploader(backend, cfg.StorageBucket))
	notifyHandler := handler.NewNotifyHandler(mail)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: upload.MaxRequestBody,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", pageHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.LoadSession(backend, cfg.CookieSecure))

	// 7. Routes
	app.Get("/", pageHandler.Home)
	app.Get("/about", pageHandler.About)
	app.Get("/products", pageCache.Middleware(cache.RouteProducts, middleware.CacheVariant), pageHandler.Products)
	app.Get("/products/:id", pageHandler.Product)

	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/signup", authHandler.SignupPage)
	app.Post("/signup", authHandler.Signup)
	app.Get("/admin-login", authHandler.AdminLoginPage)
	app.Post("/admin-login", authHandler.AdminLogin)
	app.Post("/logout", authHandler.Logout)
	app.Get("/forgot-password", authHandler.ForgotPasswordPage)
	app.Post("/forgot-password", authHandler.ForgotPassword)
	app.Get("/auth/callback", authHandler.Callback)
	app.Get("/reset-password", authHandler.ResetPasswordPage)
	app.Post("/reset-password", middleware.RequireAuth(), authHandler.ResetPassword)

	app.Post("/api/send-welcome-email", notifyHandler.SendWelcomeEmail)

	// ============ ADMIN ROUTES ============
	admin := app.Group("/admin", middleware.RequireAdmin(profileRepo))
	admin.Get("/", pageCache.Middleware(cache.RouteAdmin, middleware.CacheVariant), adminHandler.Dashboard)
	admin.Get("/products/new", adminHandler.NewProductPage)
	admin.Post("/products/new", adminHandler.CreateProduct)
	admin.Get("/products/edit/:id", adminHandler.EditProductPage)
	admin.Post("/products/edit/:id", adminHandler.UpdateProduct)
	admin.Post("/products/:id/delete", adminHandler.DeleteProduct)
	admin.Post("/uploads", uploadHandler.Upload)
	admin.Get("/ws", handler.RequireUpgrade, handler.Feed(wsHub))

	app.Use(pageHandler.NotFound)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zap.L().Panic("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zap.L().Fatal("server forced to shutdown", zap.Error(err))
	}
	zap.L().Info("server exited")
}
