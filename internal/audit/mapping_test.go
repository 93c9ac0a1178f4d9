package audit

import "testing"

func TestParseRoute(t *testing.T) {
	cases := []struct {
		method, route string
		want          ActionResource
	}{
		{"POST", "/api/orgs/:org_id/members", ActionResource{Action: "user_added", Resource: "user"}},
		{"DELETE", "/api/orgs/:org_id/members/:user_id", ActionResource{Action: "user_removed", Resource: "user"}},
		{"PUT", "/api/orgs/:org_id/members/:user_id/role", ActionResource{Action: "role_changed", Resource: "user"}},
		{"GET", "/api/orgs/:org_id/notes", ActionResource{Action: "list", Resource: "note"}},
		{"GET", "/api/orgs/:org_id/notes/:id", ActionResource{Action: "get", Resource: "note"}},
		{"POST", "/api/orgs/:org_id/todos", ActionResource{Action: "create", Resource: "todo"}},
		{"PUT", "/api/orgs/:org_id/todos/:id", ActionResource{Action: "update", Resource: "todo"}},
		{"DELETE", "/api/orgs/:org_id", ActionResource{Action: "delete", Resource: "org"}},
		{"POST", "/api/orgs", ActionResource{Action: "create", Resource: "org"}},
		{"GET", "/api/auth/me", ActionResource{Action: "list", Resource: "me"}},
	}
	for _, tc := range cases {
		if got := ParseRoute(tc.method, tc.route); got != tc.want {
			t.Errorf("ParseRoute(%s %s) = %+v, want %+v", tc.method, tc.route, got, tc.want)
		}
	}
}
