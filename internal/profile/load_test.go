package profile

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "snmp.cue", `
service: snmp: {
	description: "SNMP agent"
	property: {
		enable: {type: "bool", default: "no"}
		contact: {type: "string"}
	}
}
`)
	writeProfile(t, dir, "sshd.cue", `
service: sshd: {
	description: "secure shell"
	property: enable: {type: "bool", default: "yes"}
}
`)

	services, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, services, 2)

	names := []string{services[0].Name, services[1].Name}
	assert.ElementsMatch(t, []string{"snmp", "sshd"}, names)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadDir_NoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "readme.txt", "nothing here")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestLoadDir_InvalidProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "bad.cue", `
service: snmp: property: enable: {default: "no"}
`)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type is required")
}

func TestCompileServices_NoServiceField(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: thing: true`)
	require.NoError(t, v.Err())

	_, err := CompileServices(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no service profiles")
}
