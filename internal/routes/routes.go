package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-office/internal/repositories"
	"repair-office/internal/services"
	"repair-office/pkg/config"
	"repair-office/pkg/filestorage"
	"repair-office/pkg/middleware"
	"repair-office/pkg/pdf"
	"repair-office/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Repair    *zap.Logger
	Project   *zap.Logger
	Quotation *zap.Logger
}

// Deps are the long-lived resources built once by the serve command.
type Deps struct {
	DB          repositories.Querier
	TxBeginner  repositories.TxBeginner
	Cache       repositories.CacheRepositoryInterface
	FileStorage filestorage.FileStorageInterface
	Renderer    pdf.Renderer
	JWT         service.JWTService
	Config      *config.Config
}

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers) {
	loggers.Main.Info("InitRouter: building routes")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, loggers.Auth)
	txManager := repositories.NewTxManager(deps.TxBeginner, loggers.Main)
	cacheCfg := deps.Config.Cache

	// --- repositories ---
	repairRepo := repositories.NewRepairCaseRepository(deps.DB, loggers.Repair)
	sentRepairRepo := repositories.NewSentRepairRepository(deps.DB, loggers.Repair)
	projectRepo := repositories.NewProjectRepository(deps.DB, loggers.Project)
	quotationRepo := repositories.NewQuotationRepository(deps.DB, loggers.Quotation)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB, loggers.Main)
	memberRepo := repositories.NewMemberRepository(deps.DB, loggers.Auth)

	// --- services ---
	repairService := services.NewRepairCaseService(repairRepo, txManager, deps.Cache, deps.Renderer, cacheCfg.OptionsTTL, loggers.Repair)
	sentRepairService := services.NewSentRepairService(sentRepairRepo, repairRepo, txManager, deps.Cache, loggers.Repair)
	projectService := services.NewProjectService(projectRepo, txManager, deps.FileStorage, deps.Cache, loggers.Project)
	quotationService := services.NewQuotationService(quotationRepo, txManager, loggers.Quotation)
	dashboardService := services.NewDashboardService(dashboardRepo, deps.Cache, cacheCfg.StatsTTL, cacheCfg.ActivityTTL, loggers.Main)
	memberService := services.NewMemberService(memberRepo, deps.Cache, deps.JWT, deps.Config.Auth, loggers.Auth)

	// --- routers ---
	runMemberRouter(api, memberService, loggers.Auth, authMW)

	secureGroup := api.Group("", authMW.Auth)
	runRepairCaseRouter(secureGroup, repairService, loggers.Repair)
	runSentRepairRouter(secureGroup, sentRepairService, loggers.Repair)
	runProjectRouter(secureGroup, projectService, loggers.Project)
	runQuotationRouter(secureGroup, quotationService, loggers.Quotation)
	runDashboardRouter(secureGroup, dashboardService, loggers.Main)

	loggers.Main.Info("InitRouter: routes ready")
}
