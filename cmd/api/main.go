package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	branchService "github.com/cmlabs-hris/payroll-backend-go/internal/service/branch"
	dashboardService "github.com/cmlabs-hris/payroll-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	roleService "github.com/cmlabs-hris/payroll-backend-go/internal/service/role"
	userService "github.com/cmlabs-hris/payroll-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	roleRepo := postgresql.NewRoleRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	tx := postgresql.NewTransactor(db)

	if err := fixtures.Seed(ctx, roleRepo, userRepo, fixtures.Admin{
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	}, logger); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	roleSvc := roleService.NewRoleService(roleRepo, cfg.Permission.CacheSize, cfg.Permission.CacheTTL, logger)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, roleSvc)
	branchSvc := branchService.NewBranchService(branchRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, branchRepo, tx)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, branchRepo, export.PDFOptions{FontPath: cfg.Export.PDFFontPath})
	dashboardSvc := dashboardService.NewDashboardService(employeeRepo, branchRepo)
	userSvc := userService.NewUserService(userRepo, branchRepo, tx)

	retention := cron.NewRetentionJobs(employeeRepo, attendance.MonthKey(cfg.Retention.CutoffMonth), logger)
	scheduler := cron.NewScheduler(logger)
	if cfg.Retention.Enabled {
		retention.RegisterJobs(scheduler, cfg.Retention.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTService:     JWTService,
		AuthService:    authSvc,
		Resolver:       roleSvc,
	}, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(authSvc),
		Dashboard:   appHTTP.NewDashboardHandler(dashboardSvc),
		Branch:      appHTTP.NewBranchHandler(branchSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:  appHTTP.NewAttendanceHandler(employeeSvc),
		Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
		User:        appHTTP.NewUserHandler(userSvc),
		Role:        appHTTP.NewRoleHandler(roleSvc),
		Maintenance: appHTTP.NewMaintenanceHandler(retention.PruneOldPayrollData),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
