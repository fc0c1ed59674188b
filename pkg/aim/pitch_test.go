package aim

import (
	"math"
	"testing"
)

func newTestPitchAxis() PitchAxis {
	return NewPitchAxis(DefaultMaxPitch, DefaultConstraintDamping, DefaultConstraintTolerance)
}

// TestPitchSignInversion 测试符号约定：输入正值（向下看）存储取负
func TestPitchSignInversion(t *testing.T) {
	a := newTestPitchAxis()
	a.Update(10, 1.0/60.0)
	if math.Abs(a.Pitch()-(-10)) > 1e-9 {
		t.Errorf("Pitch after +10 input: got %v, want -10", a.Pitch())
	}
}

// TestPitchClampAdversarialInput 测试任意大的单帧输入也不越界
func TestPitchClampAdversarialInput(t *testing.T) {
	tests := []struct {
		pending float64
		want    float64
	}{
		{1e6, -DefaultMaxPitch}, // 向下看到底
		{-1e6, DefaultMaxPitch}, // 向上看到底
	}

	for _, tt := range tests {
		a := newTestPitchAxis()
		a.Update(tt.pending, 1.0/60.0)
		if math.Abs(a.Pitch()-tt.want) > 1e-9 {
			t.Errorf("Update(%v): got pitch %v, want %v", tt.pending, a.Pitch(), tt.want)
		}
		min, max := a.Limits()
		if a.Pitch() < min-1e-9 || a.Pitch() > max+1e-9 {
			t.Errorf("pitch %v outside limits [%v, %v]", a.Pitch(), min, max)
		}
	}
}

// TestPitchSetLimitsSwapNegate 测试限制设置的交换取负语义
func TestPitchSetLimitsSwapNegate(t *testing.T) {
	a := newTestPitchAxis()

	// 调用方传入（向下 60°，向上 40°）→ 内部存储 [-40, 60] 取反交换
	a.SetLimits(-60, 40)
	min, max := a.Limits()
	if min != -40 || max != 60 {
		t.Errorf("SetLimits(-60, 40): got [%v, %v], want [-40, 60]", min, max)
	}

	// 向上看到底应停在存储上限
	a.Update(-1e6, 1.0/60.0)
	if math.Abs(a.Pitch()-60) > 1e-9 {
		t.Errorf("look up to limit: got %v, want 60", a.Pitch())
	}

	// 向下看到底应停在存储下限
	a.Update(1e6, 1.0/60.0)
	if math.Abs(a.Pitch()-(-40)) > 1e-9 {
		t.Errorf("look down to limit: got %v, want -40", a.Pitch())
	}
}

// TestPitchLimitsClampedToMaxPitch 测试限制值收敛到 ±maxPitch
func TestPitchLimitsClampedToMaxPitch(t *testing.T) {
	a := newTestPitchAxis()
	a.SetLimits(-500, 500)
	min, max := a.Limits()
	if min != -DefaultMaxPitch || max != DefaultMaxPitch {
		t.Errorf("limits: got [%v, %v], want [%v, %v]", min, max, -DefaultMaxPitch, DefaultMaxPitch)
	}
}

// TestPitchDampedReturnAfterLimitChange 测试收紧限制后的阻尼回正
func TestPitchDampedReturnAfterLimitChange(t *testing.T) {
	a := newTestPitchAxis()
	dt := 1.0 / 60.0

	// 先抬头到 60°
	a.Update(-60, dt)
	if math.Abs(a.Pitch()-60) > 1e-9 {
		t.Fatalf("setup: got %v, want 60", a.Pitch())
	}

	// 收紧上限到 30°（传入约定：向上 30 → min 参数 -30）
	a.SetLimits(-30, 89)
	_, max := a.Limits()
	if max != 30 {
		t.Fatalf("tightened max: got %v, want 30", max)
	}

	// 第一帧只回正一部分
	a.Update(0, dt)
	if a.Pitch() >= 60 {
		t.Errorf("no return happened: got %v", a.Pitch())
	}
	if a.Pitch() < 30 {
		t.Errorf("return snapped past limit: got %v", a.Pitch())
	}

	// 多帧后收敛到上限
	for i := 0; i < 600; i++ {
		a.Update(0, dt)
	}
	if math.Abs(a.Pitch()-30) > 0.26 {
		t.Errorf("damped return did not converge: got %v, want ~30", a.Pitch())
	}
}

// TestPitchResetLocal 测试归零
func TestPitchResetLocal(t *testing.T) {
	a := newTestPitchAxis()
	a.Update(25, 1.0/60.0)
	a.ResetLocal()
	if a.Pitch() != 0 {
		t.Errorf("Pitch after ResetLocal: got %v, want 0", a.Pitch())
	}
}
