package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultTuningConfig(t *testing.T) {
	config := DefaultTuningConfig()

	if config.Aim.MaxPitch != 89 {
		t.Errorf("Aim.MaxPitch = %v, want 89", config.Aim.MaxPitch)
	}
	if config.Aim.SteeringRate != 1 {
		t.Errorf("Aim.SteeringRate = %v, want 1", config.Aim.SteeringRate)
	}
	if config.Aim.ConstraintDamping != 0.5 {
		t.Errorf("Aim.ConstraintDamping = %v, want 0.5", config.Aim.ConstraintDamping)
	}
	if config.Shaper.AccelerationCap != 5 {
		t.Errorf("Shaper.AccelerationCap = %v, want 5", config.Shaper.AccelerationCap)
	}
	if config.Movement.MoveSpeed != 6 {
		t.Errorf("Movement.MoveSpeed = %v, want 6", config.Movement.MoveSpeed)
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	// 只覆盖部分字段，其余字段应保持默认值
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := `
aim:
  maxPitch: 80
  steeringRate: 0.5
movement:
  moveSpeed: 8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	config, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	if config.Aim.MaxPitch != 80 {
		t.Errorf("Aim.MaxPitch = %v, want 80", config.Aim.MaxPitch)
	}
	if config.Aim.SteeringRate != 0.5 {
		t.Errorf("Aim.SteeringRate = %v, want 0.5", config.Aim.SteeringRate)
	}
	if config.Movement.MoveSpeed != 8 {
		t.Errorf("Movement.MoveSpeed = %v, want 8", config.Movement.MoveSpeed)
	}
	// 未覆盖的字段保持默认
	if config.Aim.ConstraintTolerance != 0.25 {
		t.Errorf("Aim.ConstraintTolerance = %v, want default 0.25", config.Aim.ConstraintTolerance)
	}
	if config.Movement.Gravity != 20 {
		t.Errorf("Movement.Gravity = %v, want default 20", config.Movement.Gravity)
	}
}

func TestLoadTuningConfigClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := `
aim:
  maxPitch: 120
  pitchMin: -200
  pitchMax: 200
  steeringRate: 3
  constraintDamping: -1
  falloffDegrees: -5
shaper:
  accelerationCap: 0.5
movement:
  gravity: -10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	config, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	if config.Aim.MaxPitch != 89 {
		t.Errorf("Aim.MaxPitch = %v, want clamped to 89", config.Aim.MaxPitch)
	}
	if config.Aim.PitchMin != -89 {
		t.Errorf("Aim.PitchMin = %v, want clamped to -89", config.Aim.PitchMin)
	}
	if config.Aim.PitchMax != 89 {
		t.Errorf("Aim.PitchMax = %v, want clamped to 89", config.Aim.PitchMax)
	}
	if config.Aim.SteeringRate != 1 {
		t.Errorf("Aim.SteeringRate = %v, want clamped to 1", config.Aim.SteeringRate)
	}
	if config.Aim.ConstraintDamping != 0 {
		t.Errorf("Aim.ConstraintDamping = %v, want clamped to 0", config.Aim.ConstraintDamping)
	}
	if config.Aim.FalloffDegrees != 0 {
		t.Errorf("Aim.FalloffDegrees = %v, want clamped to 0", config.Aim.FalloffDegrees)
	}
	if config.Shaper.AccelerationCap != 1 {
		t.Errorf("Shaper.AccelerationCap = %v, want clamped to 1", config.Shaper.AccelerationCap)
	}
	if config.Movement.Gravity != 0 {
		t.Errorf("Movement.Gravity = %v, want clamped to 0", config.Movement.Gravity)
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestLoadTuningConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("aim: [not a map"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := LoadTuningConfig(path)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestWatchTuningConfigReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("aim:\n  maxPitch: 70\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reloaded := make(chan *TuningConfig, 1)
	watcher, err := WatchTuningConfig(path, func(config *TuningConfig) {
		select {
		case reloaded <- config:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchTuningConfig failed: %v", err)
	}
	defer watcher.Close()

	// 等待监视goroutine就绪后修改文件
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("aim:\n  maxPitch: 60\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case config := <-reloaded:
		if config.Aim.MaxPitch != 60 {
			t.Errorf("Reloaded Aim.MaxPitch = %v, want 60", config.Aim.MaxPitch)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for tuning config reload")
	}
}

func TestWatchTuningConfigIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reloaded := make(chan *TuningConfig, 1)
	watcher, err := WatchTuningConfig(path, func(config *TuningConfig) {
		select {
		case reloaded <- config:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchTuningConfig failed: %v", err)
	}
	defer watcher.Close()

	time.Sleep(50 * time.Millisecond)
	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(other, []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("Watcher reloaded on unrelated file change")
	case <-time.After(300 * time.Millisecond):
	}
}
