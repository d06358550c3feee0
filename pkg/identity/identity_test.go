package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func TestProfile(t *testing.T) {
	s := newService(t)
	p := s.UserInfo()
	assert.Equal(t, "1", p.UserID)
	assert.Equal(t, "vben", p.Username)
	assert.Equal(t, "fakeToken1", p.Token)
	assert.Equal(t, "/dashboard/analysis", p.HomePath)
	assert.Equal(t, []Role{{RoleName: "Super Admin", Value: "super"}}, p.Roles)

	assert.Equal(t, p, s.Login("anyone"))
	assert.Equal(t, p, s.Login(""))
}

func TestProfileWireShape(t *testing.T) {
	data, err := json.Marshal(newService(t).UserInfo())
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, k := range []string{"userId", "username", "realName", "avatar", "desc", "password", "token", "homePath", "roles"} {
		assert.Contains(t, fields, k)
	}
}

func TestRepeatedCallsAreIdentical(t *testing.T) {
	s := newService(t)
	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return string(data)
	}

	first := encode(s.Login("a"))
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, encode(s.Login("b")))
		assert.Equal(t, first, encode(s.UserInfo()))
	}
	menus := encode(s.Menus())
	assert.Equal(t, menus, encode(s.Menus()))
}

func TestCopiesAreIndependent(t *testing.T) {
	s := newService(t)

	p := s.UserInfo()
	p.Roles[0].Value = "guest"
	assert.Equal(t, "super", s.UserInfo().Roles[0].Value)

	codes := s.PermCodes()
	codes[0] = "x"
	assert.Equal(t, []string{"1000", "3000", "5000"}, s.PermCodes())

	menus := s.Menus()
	menus[0].Children[0].Name = "Changed"
	assert.Equal(t, "Analysis", s.Menus()[0].Children[0].Name)
}

func TestMenuTree(t *testing.T) {
	menus := newService(t).Menus()
	require.Len(t, menus, 1)
	root := menus[0]
	assert.Equal(t, "/dashboard", root.Path)
	assert.Equal(t, "LAYOUT", root.Component)
	assert.Equal(t, "/dashboard/analysis", root.Redirect)
	assert.Equal(t, "true", root.Meta.HideChildrenInMenu)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Workbench", root.Children[1].Name)
	assert.Equal(t, "/dashboard", root.Children[1].Meta.CurrentActiveMenu)
	assert.Empty(t, root.Children[0].Children)
}

func TestDefault(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
