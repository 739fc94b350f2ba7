package set

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPersistsKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), ".gnasctl.yaml")
	viper.SetConfigFile(path)

	cmd := NewSetCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"kube-python", "/opt/conda/bin/python"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Successfully set kube-python = /opt/conda/bin/python\n", out.String())

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "/opt/conda/bin/python", v.GetString("kube-python"))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(filepath.Join(t.TempDir(), ".gnasctl.yaml"))

	cmd := NewSetCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"api-key", "secret"})
	assert.ErrorContains(t, cmd.Execute(), "invalid config key")
	assert.False(t, viper.IsSet("api-key"))
}
