package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
)

func TestRoleColorCoversEveryRole(t *testing.T) {
	roles := []ast.ActionRole{
		ast.RoleRequest, ast.RoleOwn, ast.RoleResponse, ast.RoleExport, ast.RoleServer,
	}
	for _, r := range roles {
		f := roleColor(r)
		require.NotNil(t, f)
		assert.NotEmpty(t, f(string(r)))
	}
}

func TestActionsCommandRendersRegisteredVerbs(t *testing.T) {
	root := rootCommand()
	root.SetArgs([]string{"actions"})
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "extract")
	assert.Contains(t, out.String(), "compute")
}
