package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/siamhr/payroll-backend-go/internal/config"
	appHTTP "github.com/siamhr/payroll-backend-go/internal/handler/http"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
	"github.com/siamhr/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/siamhr/payroll-backend-go/internal/service/payroll"
	policyService "github.com/siamhr/payroll-backend-go/internal/service/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-backend"),
		slog.String("env", cfg.App.Env),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	txManager := postgresql.NewTxManager(db)

	settingsService := policyService.NewSettingsService(settingsRepo)
	payrollSvc := payrollService.NewPayrollService(
		txManager,
		logger,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		holidayRepo,
		settingsRepo,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, settingsService)
	router := appHTTP.NewRouter(cfg.App.Env, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
	}
}
