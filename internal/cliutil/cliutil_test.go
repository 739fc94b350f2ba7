package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outputCmd(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddOutputFlags(cmd, "json")
	require.NoError(t, cmd.ParseFlags(args))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

type sample struct {
	RunID string   `json:"runId"`
	Args  []string `json:"args"`
}

func TestHandleOutputFormats(t *testing.T) {
	value := sample{RunID: "r1", Args: []string{"--batch", "64"}}

	cmd, out := outputCmd(t)
	require.NoError(t, HandleOutput(cmd, value, "ignored"))
	assert.JSONEq(t, `{"runId":"r1","args":["--batch","64"]}`, out.String())

	cmd, out = outputCmd(t, "--format", "yaml")
	require.NoError(t, HandleOutput(cmd, value, ""))
	assert.Contains(t, out.String(), "runId: r1\n")
	assert.Contains(t, out.String(), "- \"64\"\n")

	cmd, out = outputCmd(t, "--format", "text")
	require.NoError(t, HandleOutput(cmd, value, "plain text"))
	assert.Equal(t, "plain text\n", out.String())

	cmd, out = outputCmd(t, "--template", "{{.runId}} {{index .args 1}}")
	require.NoError(t, HandleOutput(cmd, value, ""))
	assert.Equal(t, "r1 64\n", out.String())

	cmd, _ = outputCmd(t, "--format", "xml")
	assert.Error(t, HandleOutput(cmd, value, ""))

	cmd, _ = outputCmd(t, "--template", "{{")
	assert.Error(t, HandleOutput(cmd, value, ""))
}

func TestGetString(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("python", "python", "")
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	assert.Equal(t, "python", GetString(newCmd(), "python", "python"))

	viper.Set("python", "/opt/conda/bin/python")
	assert.Equal(t, "/opt/conda/bin/python", GetString(newCmd(), "python", "python"))
	assert.Equal(t, "python3", GetString(newCmd("--python", "python3"), "python", "python"))
	assert.Equal(t, "python", GetString(newCmd(), "python", ""))
	assert.Equal(t, "", GetString(newCmd(), "missing", ""))
}

func TestConfigKeys(t *testing.T) {
	assert.True(t, IsConfigKey("record-dir"))
	assert.False(t, IsConfigKey("api-key"))
	assert.Contains(t, SortedConfigKeys(), "kube-image")

	v := viper.New()
	SetDefaults(v)
	assert.Equal(t, "python", v.GetString("python"))
	assert.False(t, v.IsSet("workdir"))
}

func launchCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddLaunchFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestCheckGenotype(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "g.txt"), []byte("x"), 0644))

	assert.NoError(t, CheckGenotype(filepath.Join(dir, "g.txt"), ""))
	assert.NoError(t, CheckGenotype("g.txt", dir))
	assert.Error(t, CheckGenotype("g.txt", filepath.Join(dir, "elsewhere")))
	assert.Error(t, CheckGenotype(dir, ""))
	assert.Error(t, CheckGenotype("", dir))
}

func TestResolveInvocation(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "g.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ZINC.yaml"), []byte("flags:\n  task: graph_level\n  data: ZINC\n"), 0644))

	cmd := launchCmd(t, "--profile", "ZINC", "--profile-dir", dir, "--workdir", dir,
		"--entrypoint", "search.py", "--set", "batch=32")
	inv, err := ResolveInvocation(cmd, "1", "g.txt", LocalTarget)
	require.NoError(t, err)

	assert.Equal(t, "ZINC", inv.Profile)
	assert.Equal(t, dir, inv.Dir)
	assert.Equal(t, []string{"search.py", "--task", "graph_level", "--data", "ZINC", "--batch", "32", "--load_genotypes", "g.txt"}, inv.Args)

	viper.Set("profile-dir", dir)
	cmd = launchCmd(t, "--profile", "ZINC")
	_, err = ResolveInvocation(cmd, "1", "g.txt", KubernetesTarget)
	assert.NoError(t, err)

	cmd = launchCmd(t, "--profile-file", filepath.Join(dir, "missing.yaml"))
	_, err = ResolveInvocation(cmd, "1", "g.txt", KubernetesTarget)
	assert.Error(t, err)
}

func TestResolveInvocationTargets(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("python", "/home/alice/venv/bin/python")
	viper.Set("workdir", "/home/alice/src/GNAS-MP")
	viper.Set("entrypoint", "/home/alice/src/GNAS-MP/train.py")

	inv, err := ResolveInvocation(launchCmd(t), "0", "/data/g.txt", KubernetesTarget)
	require.NoError(t, err)
	assert.Equal(t, "python", inv.Program)
	assert.Equal(t, "", inv.Dir)
	assert.Equal(t, "train.py", inv.Args[0])

	viper.Set("kube-python", "/opt/conda/bin/python")
	viper.Set("kube-workdir", "/workspace")
	inv, err = ResolveInvocation(launchCmd(t), "0", "/data/g.txt", KubernetesTarget)
	require.NoError(t, err)
	assert.Equal(t, "/opt/conda/bin/python", inv.Program)
	assert.Equal(t, "/workspace", inv.Dir)

	inv, err = ResolveInvocation(launchCmd(t, "--python", "python3"), "0", "/data/g.txt", KubernetesTarget)
	require.NoError(t, err)
	assert.Equal(t, "python3", inv.Program)

	inv, err = ResolveInvocation(launchCmd(t, "--skip-checks"), "0", "/data/g.txt", LocalTarget)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice/venv/bin/python", inv.Program)
	assert.Equal(t, "/home/alice/src/GNAS-MP", inv.Dir)
}

func TestGetOverrides(t *testing.T) {
	overrides, err := GetOverrides(launchCmd(t, "--set", "gpu_ids=0,1", "--set=--lr=5e-4", "--set", "note=a=b"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gpu_ids": "0,1", "lr": "5e-4", "note": "a=b"}, overrides)

	_, err = GetOverrides(launchCmd(t, "--set", "lr"))
	assert.Error(t, err)

	p, err := ResolveProfile(launchCmd(t, "--set", "extra=a,b"), LocalTarget)
	require.NoError(t, err)
	v, ok := p.Get("extra")
	assert.True(t, ok)
	assert.Equal(t, "a,b", v)
}
