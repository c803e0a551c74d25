package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/vm"
)

func TestDefaultMatchesHeapAndVMDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, heap.DefaultInitialThreshold, cfg.NurserySize)
	assert.Equal(t, heap.DefaultGrowFactor, cfg.GrowFactor)
	assert.Equal(t, heap.DefaultSweepEveryN, cfg.SweepEveryN)
	assert.Equal(t, vm.DefaultMaxStack, cfg.MaxStackDepth)
	assert.Equal(t, vm.DefaultMaxFrames, cfg.MaxFrames)
	assert.False(t, cfg.StressMode)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laythevm.yaml")
	contents := "nursery_size: 4096\nsweep_every_n: 3\nstress_mode: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.NurserySize)
	assert.Equal(t, 3, cfg.SweepEveryN)
	assert.True(t, cfg.StressMode)
	assert.Equal(t, heap.DefaultGrowFactor, cfg.GrowFactor, "unset fields keep their default")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestVMOptionsConstructsRunnableVM(t *testing.T) {
	cfg := Default()
	cfg.StressMode = true
	v := vm.New(cfg.VMOptions()...)
	require.NotNil(t, v)
}
