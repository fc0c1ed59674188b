package utils

import (
	"math"
	"testing"
)

// TestClamp 测试范围限制
func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v): got %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

// TestLerp 测试线性插值端点和中点
func TestLerp(t *testing.T) {
	if got := Lerp(2, 10, 0); got != 2 {
		t.Errorf("Lerp t=0: got %v, want 2", got)
	}
	if got := Lerp(2, 10, 1); got != 10 {
		t.Errorf("Lerp t=1: got %v, want 10", got)
	}
	if got := Lerp(2, 10, 0.5); got != 6 {
		t.Errorf("Lerp t=0.5: got %v, want 6", got)
	}
}

// TestSmoothDampConverges 测试平滑逼近最终收敛到目标
func TestSmoothDampConverges(t *testing.T) {
	current, velocity := 0.0, 0.0
	target := 10.0
	dt := 1.0 / 60.0

	for i := 0; i < 600; i++ {
		current, velocity = SmoothDamp(current, target, velocity, 0.1, dt)
	}

	if math.Abs(current-target) > 1e-3 {
		t.Errorf("SmoothDamp after 10s: got %v, want ~%v", current, target)
	}
}

// TestSmoothDampNoOvershoot 测试平滑逼近不越过目标
func TestSmoothDampNoOvershoot(t *testing.T) {
	current, velocity := 0.0, 0.0
	target := 1.0
	dt := 1.0 / 60.0
	prev := current

	for i := 0; i < 300; i++ {
		current, velocity = SmoothDamp(current, target, velocity, 0.05, dt)
		if current > target+1e-9 {
			t.Fatalf("SmoothDamp overshot at tick %d: got %v", i, current)
		}
		if current < prev-1e-9 {
			t.Fatalf("SmoothDamp moved backwards at tick %d: %v -> %v", i, prev, current)
		}
		prev = current
	}
}

// TestSmoothDampFirstTick 测试 t=0 时输出仍接近初始值（不瞬移）
func TestSmoothDampFirstTick(t *testing.T) {
	got, _ := SmoothDamp(0, 100, 0, 0.2, 1.0/60.0)
	if got > 20 {
		t.Errorf("SmoothDamp first tick jumped too far: got %v", got)
	}
}

// TestMoveTowards 测试定步长逼近
func TestMoveTowards(t *testing.T) {
	if got := MoveTowards(0, 10, 3); got != 3 {
		t.Errorf("MoveTowards: got %v, want 3", got)
	}
	if got := MoveTowards(9, 10, 3); got != 10 {
		t.Errorf("MoveTowards clamp to target: got %v, want 10", got)
	}
	if got := MoveTowards(10, 0, 4); got != 6 {
		t.Errorf("MoveTowards negative direction: got %v, want 6", got)
	}
}

// TestEasingEndpoints 测试缓动函数端点值
func TestEasingEndpoints(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"EaseLinear":     EaseLinear,
		"EaseOutCubic":   EaseOutCubic,
		"EaseOutQuad":    EaseOutQuad,
		"EaseInOutCubic": EaseInOutCubic,
	}

	for name, f := range funcs {
		if got := f(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s(0): got %v, want 0", name, got)
		}
		if got := f(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1): got %v, want 1", name, got)
		}
	}
}
