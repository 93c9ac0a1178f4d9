package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"orghub/backend/internal/platform/apperr"
)

const policyPackageQuery = "data.orghub.authz.allow"

// The role/action rule table as Rego. Admins may perform every org-scoped
// action; members get the resource actions subject to ResourcePolicy.
const authzRegoPolicy = `package orghub.authz

default allow = false
default member_allowed = false

allow if {
	input.role == "ADMIN"
}

allow if {
	input.role == "MEMBER"
	member_allowed
}

member_allowed if {
	input.action == "view_org_resource"
}

member_allowed if {
	input.action == "create_org_resource"
}

member_allowed if {
	input.action == "update_org_resource"
	not input.policy.update_requires_creator_or_admin
}

member_allowed if {
	input.action == "update_org_resource"
	input.policy.update_requires_creator_or_admin
	input.is_creator
}

member_allowed if {
	input.action == "delete_org_resource"
	input.policy.creator_may_delete
	input.is_creator
}
`

// RegoEngine evaluates the rule table using OPA Rego. The policy is compiled
// once at construction; Decide is pure and safe for concurrent use.
type RegoEngine struct {
	compiler *ast.Compiler
}

// NewRegoEngine compiles the embedded policy and returns the engine.
func NewRegoEngine() (*RegoEngine, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": authzRegoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	return &RegoEngine{compiler: compiler}, nil
}

// Decide returns nil when the input is allowed and an apperr.Forbidden
// carrying the deny reason otherwise. Absence of a membership always denies
// with ReasonNotMember, distinct from role insufficiency.
func (e *RegoEngine) Decide(ctx context.Context, in Input) error {
	if in.Membership == nil {
		return apperr.Forbidden(ReasonNotMember)
	}

	regoInput := map[string]interface{}{
		"role":       string(in.Membership.Role),
		"action":     string(in.Action),
		"is_creator": in.ResourceOwnerID != "" && in.ResourceOwnerID == in.PrincipalID,
		"policy": map[string]interface{}{
			"update_requires_creator_or_admin": in.Policy.UpdateRequiresCreatorOrAdmin,
			"creator_may_delete":               in.Policy.CreatorMayDelete,
		},
	}

	q := rego.New(
		rego.Query(policyPackageQuery),
		rego.Compiler(e.compiler),
		rego.Input(regoInput),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval authz policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("authz policy query returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return fmt.Errorf("authz policy returned non-boolean %T", rs[0].Expressions[0].Value)
	}
	if !allowed {
		return apperr.Forbidden(ReasonAdminRequired)
	}
	return nil
}
