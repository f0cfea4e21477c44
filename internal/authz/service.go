package authz

import (
	"fmt"
	"sort"
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
	// reportColumnPrefix namespaces the report column grants so they never
	// collide with route objects.
	reportColumnPrefix = "report:column:"
	actionRead         = "read"
)

const defaultRBACModel = `
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

// Policy is one allow rule.
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service wraps the casbin enforcer: route guards plus the per-role report
// column whitelists.
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService creates the authorization service backed by the shared database.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// Enforcer exposes the underlying enforcer.
func (s *Service) Enforcer() *casbin.SyncedEnforcer {
	if s == nil {
		return nil
	}
	return s.enforcer
}

// SubjectForRole builds the policy subject of a role name.
func SubjectForRole(role string) string {
	return rolePrefix + strings.TrimSpace(strings.ToLower(role))
}

// NormalizeObject strips the API version prefix so policies address routes
// as "/admin/...".
func NormalizeObject(obj string) string {
	return strings.TrimPrefix(obj, "/api/v1")
}

// EnforceRole decides whether a role may act on a route object.
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(SubjectForRole(role), NormalizeObject(obj), act)
}

// ReportColumns returns the report fields a role may see. An empty result
// means no access.
func (s *Service) ReportColumns(role string) ([]string, error) {
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, SubjectForRole(role))
	if err != nil {
		return nil, fmt.Errorf("list report columns failed: %w", err)
	}
	columns := make([]string, 0)
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		if strings.HasPrefix(rule[1], reportColumnPrefix) && (rule[2] == actionRead || rule[2] == "*") {
			columns = append(columns, strings.TrimPrefix(rule[1], reportColumnPrefix))
		}
	}
	sort.Strings(columns)
	return columns, nil
}

// GrantRolePolicy adds one allow rule for a role.
func (s *Service) GrantRolePolicy(role, object, action string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.AddPolicy(SubjectForRole(role), object, action); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// GrantReportColumn whitelists one report field for a role.
func (s *Service) GrantReportColumn(role, column string) error {
	return s.GrantRolePolicy(role, reportColumnPrefix+column, actionRead)
}

// ReloadPolicy reloads policies from the store.
func (s *Service) ReloadPolicy() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.LoadPolicy()
}
