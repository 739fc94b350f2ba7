package launcher

import (
	"strings"
	"testing"

	"github.com/gnasmp/gnasctl/pkg/hparams"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sbmPattern(t *testing.T) *hparams.Profile {
	t.Helper()
	p, ok := hparams.Builtin("SBM_PATTERN")
	require.True(t, ok)
	return p
}

func envValues(env []string, key string) []string {
	var values []string
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			values = append(values, strings.TrimPrefix(kv, key+"="))
		}
	}
	return values
}

func TestBuildSetsDeviceEnvExactly(t *testing.T) {
	for _, devices := range []string{"0", "0,1,2,3", "", "GPU-5f3c0e1a", " 1 "} {
		inv := Build(devices, "g.txt", sbmPattern(t), WithEnviron([]string{
			"PATH=/usr/bin",
			"CUDA_VISIBLE_DEVICES=7",
			"CUDA_VISIBLE_DEVICES_EXTRA=keep",
		}))

		assert.Equal(t, []string{devices}, envValues(inv.Env, "CUDA_VISIBLE_DEVICES"))
		assert.Contains(t, inv.Env, "PATH=/usr/bin")
		assert.Contains(t, inv.Env, "CUDA_VISIBLE_DEVICES_EXTRA=keep")
		assert.Equal(t, devices, inv.Devices)
	}
}

func TestBuildArgs(t *testing.T) {
	inv := Build("1", "/data/genotypes/SBM_PATTERN.txt", sbmPattern(t), WithEnviron([]string{}))

	assert.Equal(t, DefaultPython, inv.Program)
	assert.Equal(t, "train.py", inv.Args[0])
	assert.Equal(t, sbmPattern(t).Args("/data/genotypes/SBM_PATTERN.txt"), inv.Args[1:])
	assert.Equal(t, "SBM_PATTERN", inv.Profile)
	assert.Equal(t, "CUDA_VISIBLE_DEVICES", inv.DeviceEnv)

	_, err := uuid.Parse(inv.RunID)
	assert.NoError(t, err)
}

func TestBuildFixedFlagsIgnoreInput(t *testing.T) {
	a := Build("0", "a.txt", sbmPattern(t), WithEnviron([]string{}))
	b := Build("3,4", "b/c.txt", sbmPattern(t), WithEnviron([]string{}))

	n := len(a.Args)
	assert.Equal(t, a.Args[:n-1], b.Args[:n-1])
}

func TestBuildOptions(t *testing.T) {
	p := sbmPattern(t)
	p.DeviceEnv = "HIP_VISIBLE_DEVICES"
	p.Program = "search.py"

	inv := Build("2", "g", p,
		WithPython("/opt/venv/bin/python3"),
		WithPython(""),
		WithWorkDir("/src/gnas"),
		WithRunID("run-1"),
		WithEnviron([]string{"HIP_VISIBLE_DEVICES=0"}),
	)

	assert.Equal(t, "/opt/venv/bin/python3", inv.Program)
	assert.Equal(t, "search.py", inv.Args[0])
	assert.Equal(t, "/src/gnas", inv.Dir)
	assert.Equal(t, "run-1", inv.RunID)
	assert.Equal(t, []string{"HIP_VISIBLE_DEVICES=2"}, inv.Env)
}

func TestCommandLine(t *testing.T) {
	p := &hparams.Profile{
		Name:         "t",
		Program:      "train.py",
		DeviceEnv:    "CUDA_VISIBLE_DEVICES",
		GenotypeFlag: "load_genotypes",
		Flags:        []hparams.Flag{{Name: "optimizer", Value: "ADAM"}, {Name: "note", Value: "it's"}},
	}
	inv := Build("0,1", "my genotype.txt", p, WithEnviron([]string{}))

	assert.Equal(t,
		`CUDA_VISIBLE_DEVICES=0,1 python train.py --optimizer ADAM --note 'it'\''s' --load_genotypes 'my genotype.txt'`,
		inv.CommandLine(),
	)

	inv = Build("", "", p, WithEnviron([]string{}))
	assert.True(t, strings.HasPrefix(inv.CommandLine(), "CUDA_VISIBLE_DEVICES='' python"))
	assert.True(t, strings.HasSuffix(inv.CommandLine(), "--load_genotypes ''"))
}
