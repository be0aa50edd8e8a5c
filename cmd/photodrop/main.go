package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"photodrop/internal/account"
	"photodrop/internal/config"
	"photodrop/internal/db"
	"photodrop/internal/filestore"
	"photodrop/internal/handler"
	"photodrop/internal/job"
	"photodrop/internal/middleware"
	"photodrop/internal/repo"
	"photodrop/internal/schedule"
	"photodrop/internal/service"
	"photodrop/internal/session"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "photodrop",
		Short: "photodrop backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run photodrop server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Int("upload_limit", *cfg.UploadLimit),
		zap.String("file_store", cfg.FileStore.Type),
	)

	accounts, err := config.ParseAccounts(cfg.Users)
	if err != nil {
		return err
	}
	accountStore := account.NewStore(accounts)
	sessionStore := session.NewStore(cfg.Session.MaxSessions, time.Duration(cfg.Session.TTLHours)*time.Hour)
	uploadRepo := repo.NewUploadRepo(conn)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	notifier := service.NewSMTPSender(cfg.Mail)
	authService := service.NewAuthService(accountStore, sessionStore)
	uploadService := service.NewUploadService(uploadRepo, store, notifier, *cfg.UploadLimit)

	deps := handler.RouterDeps{
		Auth:     handler.NewAuthHandler(authService, sessionStore.TTL()),
		Uploads:  handler.NewUploadHandler(uploadService),
		Sessions: sessionStore,
	}

	extra := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	}
	if cfg.RateLimitMS > 0 {
		extra = append(extra, middleware.RateLimit(time.Duration(cfg.RateLimitMS)*time.Millisecond))
	}

	engine, err := webapi.NewEngine(
		"/",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(extra...),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewDailyReportJob(uploadRepo), cfg.ReportCron); err != nil {
		return fmt.Errorf("schedule report job: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
