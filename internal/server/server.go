package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/auth"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	"github.com/cemcalis/chiptunnig/internal/auth/session"
	"github.com/cemcalis/chiptunnig/internal/authorization"
	"github.com/cemcalis/chiptunnig/internal/catalog"
	catalogdomain "github.com/cemcalis/chiptunnig/internal/catalog/domain"
	"github.com/cemcalis/chiptunnig/internal/config"
	"github.com/cemcalis/chiptunnig/internal/ecu"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	"github.com/cemcalis/chiptunnig/internal/filerequest"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	"github.com/cemcalis/chiptunnig/internal/ledger"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	"github.com/cemcalis/chiptunnig/internal/messaging"
	messagingdomain "github.com/cemcalis/chiptunnig/internal/messaging/domain"
	"github.com/cemcalis/chiptunnig/internal/observability"
	obsmiddleware "github.com/cemcalis/chiptunnig/internal/observability/logger"
	obsmetrics "github.com/cemcalis/chiptunnig/internal/observability/metrics"
	obstracing "github.com/cemcalis/chiptunnig/internal/observability/tracing"
	"github.com/cemcalis/chiptunnig/internal/payment"
	paymentdomain "github.com/cemcalis/chiptunnig/internal/payment/domain"
	"github.com/cemcalis/chiptunnig/internal/ratelimit"
	"github.com/cemcalis/chiptunnig/internal/settings"
	settingsdomain "github.com/cemcalis/chiptunnig/internal/settings/domain"
	"github.com/cemcalis/chiptunnig/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	session.Module,
	catalog.Module,
	ledger.Module,
	payment.Module,
	storage.Module,
	filerequest.Module,
	messaging.Module,
	settings.Module,
	ecu.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	authsvc      authdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	authzSvc     authorization.Service
	catalogSvc   catalogdomain.Catalog
	ledgerSvc    ledgerdomain.Service
	paymentSvc   paymentdomain.Service
	fileSvc      filedomain.Service
	messagingSvc messagingdomain.Service
	settingsSvc  settingsdomain.Service
	ecuSvc       ecudomain.Service
	loginLimiter *ratelimit.LoginLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	AuthzSvc     authorization.Service
	CatalogSvc   catalogdomain.Catalog
	LedgerSvc    ledgerdomain.Service
	PaymentSvc   paymentdomain.Service
	FileSvc      filedomain.Service
	MessagingSvc messagingdomain.Service
	SettingsSvc  settingsdomain.Service
	EcuSvc       ecudomain.Service
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		authzSvc:     p.AuthzSvc,
		catalogSvc:   p.CatalogSvc,
		ledgerSvc:    p.LedgerSvc,
		paymentSvc:   p.PaymentSvc,
		fileSvc:      p.FileSvc,
		messagingSvc: p.MessagingSvc,
		settingsSvc:  p.SettingsSvc,
		ecuSvc:       p.EcuSvc,
		loginLimiter: p.LoginLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
	authGroup.PATCH("/me", s.AuthRequired(), s.UpdateProfile)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Service catalog --------
	api.GET("/services", s.Can(authorization.ObjectCatalog, authorization.ActionView), s.ListServices)

	// -------- File requests --------
	api.GET("/files", s.Can(authorization.ObjectFileRequest, authorization.ActionView), s.ListFiles)
	api.POST("/files", s.Can(authorization.ObjectFileRequest, authorization.ActionCreate), s.CreateFile)
	api.GET("/files/:id", s.Can(authorization.ObjectFileRequest, authorization.ActionView), s.GetFile)
	api.GET("/files/:id/download", s.Can(authorization.ObjectFileRequest, authorization.ActionView), s.DownloadOriginal)
	api.GET("/files/:id/result", s.Can(authorization.ObjectFileResult, authorization.ActionView), s.DownloadResult)
	api.GET("/files/:id/messages", s.Can(authorization.ObjectMessage, authorization.ActionView), s.ListFileMessages)
	api.POST("/files/:id/messages", s.Can(authorization.ObjectMessage, authorization.ActionCreate), s.SendFileMessage)

	// -------- Credits and payments --------
	api.GET("/credits", s.Can(authorization.ObjectCredits, authorization.ActionView), s.GetCredits)
	api.GET("/payments", s.Can(authorization.ObjectPayment, authorization.ActionView), s.ListMyPayments)
	api.POST("/payments", s.Can(authorization.ObjectPayment, authorization.ActionCreate), s.SubmitPayment)

	// -------- Messaging --------
	api.GET("/messages", s.Can(authorization.ObjectMessage, authorization.ActionView), s.MyConversation)
	api.POST("/messages", s.Can(authorization.ObjectMessage, authorization.ActionCreate), s.SendMessage)

	// -------- Lookups --------
	api.GET("/settings", s.Can(authorization.ObjectSetting, authorization.ActionView), s.GetSettings)
	api.GET("/ecus/search", s.Can(authorization.ObjectECU, authorization.ActionView), s.SearchECUs)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())

	// -------- Dealer approvals --------
	admin.GET("/dealers", s.Can(authorization.ObjectApproval, authorization.ActionView), s.ListDealers)
	admin.POST("/dealers/:id/resolve", s.Can(authorization.ObjectApproval, authorization.ActionResolve), s.ResolveRegistration)

	// -------- User management --------
	admin.PATCH("/users/:id", s.Can(authorization.ObjectUser, authorization.ActionUpdate), s.UpdateUser)
	admin.DELETE("/users/:id", s.Can(authorization.ObjectUser, authorization.ActionDelete), s.DeleteUser)
	admin.POST("/users/:id/credits", s.Can(authorization.ObjectLedger, authorization.ActionAdjust), s.AdjustCredits)
	admin.GET("/users/:id/credits", s.Can(authorization.ObjectUser, authorization.ActionView), s.UserCredits)
	admin.GET("/transactions", s.Can(authorization.ObjectLedger, authorization.ActionView), s.ListAllTransactions)

	// -------- Service catalog --------
	admin.POST("/services", s.Can(authorization.ObjectCatalog, authorization.ActionCreate), s.CreateService)
	admin.PATCH("/services/:id", s.Can(authorization.ObjectCatalog, authorization.ActionUpdate), s.UpdateService)
	admin.DELETE("/services/:id", s.Can(authorization.ObjectCatalog, authorization.ActionDelete), s.DeleteService)

	// -------- File workflow --------
	admin.GET("/files", s.Can(authorization.ObjectFileRequest, authorization.ActionView), s.AdminListFiles)
	admin.POST("/files/:id/status", s.Can(authorization.ObjectFileRequest, authorization.ActionUpdate), s.AdvanceFileStatus)
	admin.POST("/files/:id/result", s.Can(authorization.ObjectFileResult, authorization.ActionCreate), s.AttachFileResult)

	// -------- Payments --------
	admin.GET("/payments", s.Can(authorization.ObjectPayment, authorization.ActionView), s.ListAllPayments)
	admin.POST("/payments/:id/resolve", s.Can(authorization.ObjectPayment, authorization.ActionResolve), s.ResolvePayment)

	// -------- Messaging --------
	admin.GET("/messages", s.Can(authorization.ObjectMessage, authorization.ActionView), s.MessageOverview)
	admin.GET("/messages/:userId", s.Can(authorization.ObjectMessage, authorization.ActionView), s.UserConversation)
	admin.POST("/messages/:userId", s.Can(authorization.ObjectMessage, authorization.ActionCreate), s.SendMessageToUser)

	// -------- Settings and ECU catalog --------
	admin.PUT("/settings", s.Can(authorization.ObjectSetting, authorization.ActionUpdate), s.UpdateSettings)
	admin.GET("/ecus", s.Can(authorization.ObjectECU, authorization.ActionView), s.ListECUs)
	admin.POST("/ecus", s.Can(authorization.ObjectECU, authorization.ActionCreate), s.CreateECU)
	admin.PATCH("/ecus/:id", s.Can(authorization.ObjectECU, authorization.ActionUpdate), s.UpdateECU)
	admin.DELETE("/ecus/:id", s.Can(authorization.ObjectECU, authorization.ActionDelete), s.DeleteECU)
}
