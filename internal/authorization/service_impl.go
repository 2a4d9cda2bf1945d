package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/cemcalis/chiptunnig/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectFileRequest = "file_request"
	ObjectFileResult  = "file_result"
	ObjectPayment     = "payment"
	ObjectCredits     = "credits"
	ObjectCatalog     = "catalog"
	ObjectApproval    = "approval"
	ObjectMessage     = "message"
	ObjectSetting     = "setting"
	ObjectECU         = "ecu"
	ObjectUser        = "user"
	ObjectLedger      = "ledger"
)

const (
	ActionView    = "view"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionResolve = "resolve"
	ActionAdjust  = "adjust"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Metrics  *metrics.Metrics `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	metrics  *metrics.Metrics
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		metrics:  p.Metrics,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role string, object string, action string) error {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce("role:"+role, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.metrics.RecordAuthDenied(ctx, "forbidden")
		s.log.Debug("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action))
		return ErrForbidden
	}
	return nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Dealers work their own data. Ownership checks live in the
		// services, this layer only gates the capability.
		{"role:dealer", ObjectFileRequest, ActionView},
		{"role:dealer", ObjectFileRequest, ActionCreate},
		{"role:dealer", ObjectFileResult, ActionView},
		{"role:dealer", ObjectPayment, ActionView},
		{"role:dealer", ObjectPayment, ActionCreate},
		{"role:dealer", ObjectCredits, ActionView},
		{"role:dealer", ObjectCatalog, ActionView},
		{"role:dealer", ObjectMessage, ActionView},
		{"role:dealer", ObjectMessage, ActionCreate},
		{"role:dealer", ObjectSetting, ActionView},
		{"role:dealer", ObjectECU, ActionView},

		// Admin covers everything dealers can do plus management.
		{"role:admin", ObjectFileRequest, ActionUpdate},
		{"role:admin", ObjectFileResult, ActionCreate},
		{"role:admin", ObjectPayment, ActionResolve},
		{"role:admin", ObjectCatalog, ActionCreate},
		{"role:admin", ObjectCatalog, ActionUpdate},
		{"role:admin", ObjectCatalog, ActionDelete},
		{"role:admin", ObjectApproval, ActionView},
		{"role:admin", ObjectApproval, ActionResolve},
		{"role:admin", ObjectSetting, ActionUpdate},
		{"role:admin", ObjectECU, ActionCreate},
		{"role:admin", ObjectECU, ActionUpdate},
		{"role:admin", ObjectECU, ActionDelete},
		{"role:admin", ObjectUser, ActionView},
		{"role:admin", ObjectUser, ActionUpdate},
		{"role:admin", ObjectUser, ActionDelete},
		{"role:admin", ObjectLedger, ActionView},
		{"role:admin", ObjectLedger, ActionAdjust},
	}

	groupings := [][]string{
		{"role:admin", "role:dealer"},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	for _, grouping := range groupings {
		if _, err := enforcer.AddGroupingPolicy(grouping[0], grouping[1]); err != nil {
			return err
		}
	}
	return nil
}
