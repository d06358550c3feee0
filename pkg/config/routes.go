package config

import (
	"fmt"
	"sort"
	"strings"
)

// Operation is the logical name of a gateway route.
type Operation string

// NLP operations.
const (
	OpSentSplit Operation = "sent_split"
	OpAddWords  Operation = "add_words"
	OpSeg       Operation = "seg"
	OpPOS       Operation = "pos"
	OpNER       Operation = "ner"
	OpSRL       Operation = "srl"
	OpDEP       Operation = "dep"
	OpSDP       Operation = "sdp"
	OpSDPG      Operation = "sdpg"
	OpAll       Operation = "all"
)

// Identity operations.
const (
	OpLogin       Operation = "login"
	OpLogout      Operation = "logout"
	OpGetUserInfo Operation = "get_user_info"
	OpGetPermCode Operation = "get_prem_code"
	OpGetMenuList Operation = "get_menu_list"
)

// NLPOperations lists the NLP subsystem operations in registration order.
var NLPOperations = []Operation{
	OpSentSplit, OpAddWords, OpSeg, OpPOS, OpNER, OpSRL, OpDEP, OpSDP, OpSDPG, OpAll,
}

// IdentityOperations lists the mock identity operations in registration order.
var IdentityOperations = []Operation{
	OpLogin, OpLogout, OpGetUserInfo, OpGetPermCode, OpGetMenuList,
}

// Operations returns every operation the gateway serves.
func Operations() []Operation {
	ops := make([]Operation, 0, len(NLPOperations)+len(IdentityOperations))
	ops = append(ops, NLPOperations...)
	return append(ops, IdentityOperations...)
}

// ReservedPaths are served by the gateway itself and cannot be assigned to an operation.
var ReservedPaths = []string{"/health", "/routes"}

// RouteTable maps operations to URL paths. It is built once from a validated Config and
// never changes afterwards.
type RouteTable struct {
	paths map[Operation]string
}

func newRouteTable(c *Config) (RouteTable, error) {
	seg := c.RoutePath.Seg
	if seg == "" {
		seg = c.RoutePath.CWS
	} else if c.RoutePath.CWS != "" && c.RoutePath.CWS != seg {
		return RouteTable{}, &ConfigError{
			Field:   "route_path.cws",
			Message: fmt.Sprintf("alias %q conflicts with route_path.seg %q", c.RoutePath.CWS, seg),
		}
	}

	candidates := []struct {
		op    Operation
		field string
		path  string
	}{
		{OpSentSplit, "route_path.sent_split", c.RoutePath.SentSplit},
		{OpAddWords, "route_path.add_words", c.RoutePath.AddWords},
		{OpSeg, "route_path.seg", seg},
		{OpPOS, "route_path.pos", c.RoutePath.POS},
		{OpNER, "route_path.ner", c.RoutePath.NER},
		{OpSRL, "route_path.srl", c.RoutePath.SRL},
		{OpDEP, "route_path.dep", c.RoutePath.DEP},
		{OpSDP, "route_path.sdp", c.RoutePath.SDP},
		{OpSDPG, "route_path.sdpg", c.RoutePath.SDPG},
		{OpAll, "route_path.all", c.RoutePath.All},
		{OpLogin, "mock_path.login", c.MockPath.Login},
		{OpLogout, "mock_path.logout", c.MockPath.Logout},
		{OpGetUserInfo, "mock_path.get_user_info", c.MockPath.GetUserInfo},
		{OpGetPermCode, "mock_path.get_prem_code", c.MockPath.GetPermCode},
		{OpGetMenuList, "mock_path.get_menu_list", c.MockPath.GetMenuList},
	}

	paths := make(map[Operation]string, len(candidates))
	owner := make(map[string]string, len(candidates))
	for _, r := range candidates {
		p := strings.TrimSpace(r.path)
		switch {
		case p == "":
			return RouteTable{}, &ConfigError{Field: r.field, Message: "route is required"}
		case !strings.HasPrefix(p, "/"):
			return RouteTable{}, &ConfigError{Field: r.field, Message: fmt.Sprintf("path %q must start with /", p)}
		}
		for _, reserved := range ReservedPaths {
			if p == reserved {
				return RouteTable{}, &ConfigError{Field: r.field, Message: fmt.Sprintf("path %q is reserved", p)}
			}
		}
		if prev, dup := owner[p]; dup {
			return RouteTable{}, &ConfigError{Field: r.field, Message: fmt.Sprintf("path %q already used by %s", p, prev)}
		}
		owner[p] = r.field
		paths[r.op] = p
	}
	return RouteTable{paths: paths}, nil
}

// Path returns the path configured for op.
func (t RouteTable) Path(op Operation) (string, bool) {
	p, ok := t.paths[op]
	return p, ok
}

// Paths returns a copy of the table.
func (t RouteTable) Paths() map[Operation]string {
	out := make(map[Operation]string, len(t.paths))
	for op, p := range t.paths {
		out[op] = p
	}
	return out
}

// Len returns the number of routed operations.
func (t RouteTable) Len() int {
	return len(t.paths)
}

// Sorted returns the operations ordered by path, for display.
func (t RouteTable) Sorted() []Operation {
	ops := make([]Operation, 0, len(t.paths))
	for op := range t.paths {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return t.paths[ops[i]] < t.paths[ops[j]] })
	return ops
}
