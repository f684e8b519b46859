// Package authz answers role-based permission questions with Casbin.
//
// Roles form a chain: anonymous < user < moderator < admin. Objects are coarse
// resource groups (catalog, review, comment, profile, users) and actions are
// verbs such as read, create, write, moderate and manage. Ownership checks
// (is this the author?) stay in the services; this package only knows roles.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

const (
	ObjCatalog = "catalog"
	ObjReview  = "review"
	ObjComment = "comment"
	ObjProfile = "profile"
	ObjUsers   = "users"

	ActRead     = "read"
	ActCreate   = "create"
	ActUpdate   = "update"
	ActWrite    = "write"
	ActModerate = "moderate"
	ActManage   = "manage"
)

// Enforcer wraps a synced casbin enforcer loaded from the embedded policy
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	log      *zap.Logger
}

func NewEnforcer(log *zap.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{
		enforcer: enforcer,
		log:      log.With(zap.String("component", "authz")),
	}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Can reports whether role may perform action on object. Errors deny.
func (e *Enforcer) Can(role, object, action string) bool {
	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		e.log.Error("Permission check failed",
			zap.Error(err),
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return false
	}
	return allowed
}
