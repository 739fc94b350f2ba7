package show

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowOutputLoadsAsProfileFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewShowCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"SBM_PATTERN", "--set", "lr=5e-4", "--set", "note=a,b"})
	require.NoError(t, cmd.Execute())

	path := filepath.Join(t.TempDir(), "tuned.yaml")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0644))

	loaded, err := hparams.LoadFile(path)
	require.NoError(t, err)

	want, _ := hparams.Builtin("SBM_PATTERN")
	require.NoError(t, want.ApplyOverrides(map[string]string{"lr": "5e-4", "note": "a,b"}))

	assert.Equal(t, want.Name, loaded.Name)
	assert.Equal(t, want.Program, loaded.Program)
	assert.Equal(t, want.Flags, loaded.Flags)
	assert.Equal(t, want.Args("g.txt"), loaded.Args("g.txt"))
}

func TestShowUnknownProfile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewShowCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"IMAGENET"})
	assert.ErrorIs(t, cmd.Execute(), hparams.ErrProfileNotFound)
}
