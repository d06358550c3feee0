/*
Package identity serves the static login, profile, permission and menu payloads the demo
dashboard expects from its backend.

Nothing is verified and nothing is stored. The fixtures are embedded JSON files decoded once;
every call returns a fresh copy so that callers can never change what the next caller sees.
*/
package identity

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// Role is one role of the profile.
type Role struct {
	RoleName string `json:"roleName"`
	Value    string `json:"value"`
}

// Profile is the user returned by login and get_user_info.
type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RealName string `json:"realName"`
	Avatar   string `json:"avatar"`
	Desc     string `json:"desc"`
	Password string `json:"password"`
	Token    string `json:"token"`
	HomePath string `json:"homePath"`
	Roles    []Role `json:"roles"`
}

// MenuMeta holds the display options of a menu entry. Flags are strings on the wire.
type MenuMeta struct {
	Title              string `json:"title"`
	Icon               string `json:"icon,omitempty"`
	HideChildrenInMenu string `json:"hideChildrenInMenu,omitempty"`
	HideMenu           string `json:"hideMenu,omitempty"`
	HideBreadcrumb     string `json:"hideBreadcrumb,omitempty"`
	CurrentActiveMenu  string `json:"currentActiveMenu,omitempty"`
}

// Menu is one node of the menu tree.
type Menu struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Component string   `json:"component"`
	Redirect  string   `json:"redirect,omitempty"`
	Meta      MenuMeta `json:"meta"`
	Children  []Menu   `json:"children,omitempty"`
}

// Service answers the identity operations.
type Service struct {
	profile   Profile
	permCodes []string
	menus     []Menu
}

var (
	defaultOnce    sync.Once
	defaultService *Service
	defaultErr     error
)

// Default returns the service built from the embedded fixtures, decoding them on first use.
func Default() (*Service, error) {
	defaultOnce.Do(func() {
		defaultService, defaultErr = New()
	})
	return defaultService, defaultErr
}

// New decodes the embedded fixtures.
func New() (*Service, error) {
	s := &Service{}
	for name, dst := range map[string]any{
		"fixtures/profile.json":    &s.profile,
		"fixtures/perm_codes.json": &s.permCodes,
		"fixtures/menu.json":       &s.menus,
	} {
		data, err := fixtures.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", name, err)
		}
	}
	log.Debugf("Identity fixtures loaded: user %s, %d menus", s.profile.Username, len(s.menus))
	return s, nil
}

// Login returns the profile whatever the credentials.
func (s *Service) Login(username string) Profile {
	log.Debugf("Mock login for %q", username)
	return s.UserInfo()
}

// Logout is a no-op.
func (s *Service) Logout() {}

// UserInfo returns the profile.
func (s *Service) UserInfo() Profile {
	p := s.profile
	p.Roles = append([]Role(nil), s.profile.Roles...)
	return p
}

// PermCodes returns the permission codes.
func (s *Service) PermCodes() []string {
	return append([]string(nil), s.permCodes...)
}

// Menus returns the menu tree.
func (s *Service) Menus() []Menu {
	return cloneMenus(s.menus)
}

func cloneMenus(menus []Menu) []Menu {
	if menus == nil {
		return nil
	}
	out := make([]Menu, len(menus))
	for i, m := range menus {
		out[i] = m
		out[i].Children = cloneMenus(m.Children)
	}
	return out
}
