package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	authpg "github.com/treyfatech/sitecms/internal/auth/postgres"
	"github.com/treyfatech/sitecms/internal/blog"
	blogpg "github.com/treyfatech/sitecms/internal/blog/postgres"
	"github.com/treyfatech/sitecms/internal/collection"
	"github.com/treyfatech/sitecms/internal/consultation"
	consultationpg "github.com/treyfatech/sitecms/internal/consultation/postgres"
	"github.com/treyfatech/sitecms/internal/sitedata"
	sitedatapg "github.com/treyfatech/sitecms/internal/sitedata/postgres"
	"github.com/treyfatech/sitecms/internal/transport/rest"
	"github.com/treyfatech/sitecms/internal/upload"
	"github.com/treyfatech/sitecms/internal/user"
	userpg "github.com/treyfatech/sitecms/internal/user/postgres"
	"github.com/treyfatech/sitecms/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	db := deps.Gorm

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	authRepo := authpg.NewAuthRepository(db)
	authService := auth.NewService(authRepo, tokens, cfg.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userRepo := userpg.NewUserRepository(db)
	userService := user.NewService(userRepo, authService, lg)
	userHandler := user.NewHandler(userService)

	consultationRepo := consultationpg.NewConsultationRepository(db)
	consultationService := consultation.NewService(consultationRepo, lg)
	consultationHandler := consultation.NewHandler(consultationService)

	blogRepo := blogpg.NewBlogRepository(db)
	blogService := blog.NewService(blogRepo, lg)
	blogHandler := blog.NewHandler(blogService)

	siteDataRepo := sitedatapg.NewSiteDataRepository(db)
	siteDataService := sitedata.NewService(siteDataRepo, lg)
	siteDataHandler := sitedata.NewHandler(siteDataService)

	portfolioService := collection.NewService(sitedata.SectionPortfolio, "Portfolio", siteDataRepo, lg)
	galleryService := collection.NewService(sitedata.SectionGallery, "Gallery", siteDataRepo, lg)

	uploadStore := upload.NewStore(cfg.Upload.Dir, cfg.Upload.PublicPath, cfg.Upload.MaxSizeMB)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, cfg, rest.Handlers{
		Auth:         authHandler,
		User:         userHandler,
		Consultation: consultationHandler,
		Blog:         blogHandler,
		SiteData:     siteDataHandler,
		Portfolio:    collection.NewHandler(portfolioService),
		Gallery:      collection.NewHandler(galleryService),
		Upload:       upload.NewHandler(uploadStore),
	}, lg)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.App.Environment, config.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already opened pool so both share
// one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
