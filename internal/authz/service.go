package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"

	// AdminAPIObject covers every route under /api.
	AdminAPIObject = "/api/*"
	AnyAction      = "*"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Service decides whether a role may call a route. Policies live in the
// casbin_rule table through the gorm adapter.
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// EnsureDefaultPolicy grants the admin role every action under /api.
func (s *Service) EnsureDefaultPolicy() error {
	return s.GrantRolePolicy("admin", AdminAPIObject, AnyAction)
}

// GrantRolePolicy is idempotent.
func (s *Service) GrantRolePolicy(role, object, action string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	sub, err := SubjectForRole(role)
	if err != nil {
		return err
	}
	obj, act := NormalizeObject(object), NormalizeAction(action)

	// AddPolicy reports false without error when the rule already exists
	if _, err := s.enforcer.AddPolicy(sub, obj, act); err != nil {
		return fmt.Errorf("add policy: %w", err)
	}
	return nil
}

// Enforce reports whether role may perform action on object (a request path).
func (s *Service) Enforce(role, object, action string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	sub, err := SubjectForRole(role)
	if err != nil {
		return false, err
	}
	return s.enforcer.Enforce(sub, NormalizeObject(object), NormalizeAction(action))
}

func SubjectForRole(role string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	normalized = strings.TrimPrefix(normalized, rolePrefix)
	if normalized == "" {
		return "", fmt.Errorf("role is required")
	}
	return rolePrefix + normalized, nil
}

func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return normalized
}

func NormalizeAction(action string) string {
	normalized := strings.ToUpper(strings.TrimSpace(action))
	if normalized == "" {
		return AnyAction
	}
	return normalized
}
