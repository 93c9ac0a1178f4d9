package audit

import "strings"

// ActionResource holds action and resource derived from a route.
type ActionResource struct {
	Action   string
	Resource string
}

// Membership route overrides: audit as user_added, user_removed, role_changed
// on resource "user".
const (
	membersRoute    = "/api/orgs/:org_id/members"
	memberRoute     = "/api/orgs/:org_id/members/:user_id"
	memberRoleRoute = "/api/orgs/:org_id/members/:user_id/role"
)

// ParseRoute returns action and resource for an HTTP method and route pattern
// (the registered pattern with parameter placeholders, not the raw URL).
// Action is a verb: get, list, create, update, or delete. Resource is the last
// static path segment, singularized (e.g. /api/orgs/:org_id/notes/:id -> note).
func ParseRoute(method, routePath string) ActionResource {
	switch {
	case method == "POST" && routePath == membersRoute:
		return ActionResource{Action: "user_added", Resource: "user"}
	case method == "DELETE" && routePath == memberRoute:
		return ActionResource{Action: "user_removed", Resource: "user"}
	case method == "PUT" && routePath == memberRoleRoute:
		return ActionResource{Action: "role_changed", Resource: "user"}
	}

	segments := strings.Split(strings.Trim(routePath, "/"), "/")
	resource := ""
	endsWithParam := false
	for i := len(segments) - 1; i >= 0; i-- {
		if strings.HasPrefix(segments[i], ":") {
			if resource == "" {
				endsWithParam = true
			}
			continue
		}
		resource = segments[i]
		break
	}
	resource = strings.TrimSuffix(resource, "s")

	var action string
	switch method {
	case "GET":
		if endsWithParam {
			action = "get"
		} else {
			action = "list"
		}
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return ActionResource{Action: action, Resource: resource}
}
