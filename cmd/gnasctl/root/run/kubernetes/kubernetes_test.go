package kubernetes

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	"sigs.k8s.io/yaml"
)

func TestKubernetesDryRunManifest(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("kube-image", "registry.local/gnas:1.0")

	cmd := NewKubernetesCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"0,1", "/data/genotypes/SBM_PATTERN.txt",
		"--dry-run", "--pvc", "gnas-data", "--queue", "research", "--name", "pattern-run"})
	require.NoError(t, cmd.Execute())

	var job batchv1.Job
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &job))

	assert.Equal(t, "Job", job.Kind)
	assert.Equal(t, "pattern-run", job.Name)
	assert.Equal(t, "default", job.Namespace)
	assert.Equal(t, "research", job.Labels["kai.scheduler/queue"])

	c := job.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "registry.local/gnas:1.0", c.Image)
	assert.Equal(t, "CUDA_VISIBLE_DEVICES", c.Env[0].Name)
	assert.Equal(t, "0,1", c.Env[0].Value)
	assert.Equal(t, "/data/genotypes/SBM_PATTERN.txt", c.Args[len(c.Args)-1])
	gpus := c.Resources.Limits["nvidia.com/gpu"]
	assert.Equal(t, int64(2), gpus.Value())
}

func TestKubernetesIgnoresLocalSettings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("kube-image", "gnas")
	viper.Set("workdir", "/home/alice/src/GNAS-MP")
	viper.Set("python", "/home/alice/venv/bin/python")

	cmd := NewKubernetesCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"2,3", "/data/g.txt", "--dry-run"})
	require.NoError(t, cmd.Execute())

	var job batchv1.Job
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &job))

	c := job.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "", c.WorkingDir)
	assert.Equal(t, []string{"python"}, c.Command)
	assert.Equal(t, "0,1", c.Env[0].Value)
	gpus := c.Resources.Limits["nvidia.com/gpu"]
	assert.Equal(t, int64(2), gpus.Value())
}

func TestKubernetesRequiresImage(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewKubernetesCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"0", "/data/g.txt", "--dry-run"})
	assert.Error(t, cmd.Execute())
}
