package app

import (
	"database/sql"

	"go-zampay/internal/audit"
	"go-zampay/internal/company"
	"go-zampay/internal/disciplinary"
	"go-zampay/internal/employee"
	"go-zampay/internal/hraction"
	"go-zampay/internal/leave"
	"go-zampay/internal/messaging/kafka"
	"go-zampay/internal/paycalc"
	"go-zampay/internal/payroll"
	"go-zampay/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	disciplinaryRepo := disciplinary.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	hrActionRepo := hraction.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- Core ---
	auditor := audit.NewRecorder(auditRepo)
	engine, err := paycalc.NewEngine(paycalc.ZambianTaxBands2024)
	if err != nil {
		return err
	}

	// --- Services ---
	companyService := company.NewService(db, companyRepo, auditor)
	disciplinaryService := disciplinary.NewService(db, disciplinaryRepo, employeeRepo, hrActionRepo, auditor)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, auditor, outboxRepo, rdb)
	hrActionService := hraction.NewService(db, hrActionRepo, employeeRepo, leaveRepo, auditor)
	leaveService := leave.NewService(leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo, employeeRepo, hrActionRepo, auditor, outboxRepo, rdb, engine)

	// --- Handlers ---
	companyHandler := company.NewHandler(companyService)
	disciplinaryHandler := disciplinary.NewHandler(disciplinaryService)
	employeeHandler := employee.NewHandler(employeeService)
	hrActionHandler := hraction.NewHandler(hrActionService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		company.RegisterRoutes(api, companyHandler, logger)
		disciplinary.RegisterRoutes(api, disciplinaryHandler, logger)
		employee.RegisterRoutes(api, employeeHandler, logger)
		hraction.RegisterRoutes(api, hrActionHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, logger)
		payroll.RegisterRoutes(api, payrollHandler, rdb, logger)
	}

	return nil
}
