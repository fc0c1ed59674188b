package aim

import (
	"math"
	"testing"

	"github.com/gonewx/fpsrig/pkg/types"
)

// yawAngleOf 返回方向 v 相对参考前方向绕上轴的带符号角度
func yawAngleOf(v types.Vec3) float64 {
	return types.Vec3Forward.SignedAngleAround(v, types.Vec3Up)
}

// TestYawCoupledRotatesHeading 测试耦合模式下偏航直接作用于角色朝向
func TestYawCoupledRotatesHeading(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, false)
	y.UpdateYaw(30, 1.0/60.0)

	if got := yawAngleOf(y.Heading()); math.Abs(got-30) > 1e-6 {
		t.Errorf("heading: got %v, want 30", got)
	}
	if got := y.AimYawDiff(); math.Abs(got) > 1e-6 {
		t.Errorf("aim offset in coupled mode: got %v, want 0", got)
	}
}

// TestYawDecoupledRotatesAimOffset 测试解耦模式下偏航只动瞄准偏移
func TestYawDecoupledRotatesAimOffset(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)
	y.UpdateYaw(30, 1.0/60.0)

	if got := yawAngleOf(y.Heading()); math.Abs(got) > 1e-6 {
		t.Errorf("heading moved in decoupled mode: got %v, want 0", got)
	}
	if got := y.AimYawDiff(); math.Abs(got-30) > 1e-6 {
		t.Errorf("aim offset: got %v, want 30", got)
	}
	if got := yawAngleOf(y.AimHeading()); math.Abs(got-30) > 1e-6 {
		t.Errorf("aim heading: got %v, want 30", got)
	}
}

// TestLerpYawToAimFullTransfer 测试 amount=1 时一帧全量转移
func TestLerpYawToAimFullTransfer(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)
	y.UpdateYaw(40, 1.0/60.0)
	y.LerpYawToAim(1, 1.0/60.0)

	if got := yawAngleOf(y.Heading()); math.Abs(got-40) > 1e-6 {
		t.Errorf("heading after full transfer: got %v, want 40", got)
	}
	if got := y.AimYawDiff(); math.Abs(got) > 1e-6 {
		t.Errorf("residual aim offset: got %v, want 0", got)
	}
}

// TestLerpYawToAimZeroAmount 测试 amount=0 且无朝向约束时永不转移
func TestLerpYawToAimZeroAmount(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)
	y.UpdateYaw(40, 1.0/60.0)

	for i := 0; i < 100; i++ {
		y.LerpYawToAim(0, 1.0/60.0)
	}

	if got := yawAngleOf(y.Heading()); math.Abs(got) > 1e-6 {
		t.Errorf("heading moved with zero steering: got %v, want 0", got)
	}
	if got := y.AimYawDiff(); math.Abs(got-40) > 1e-6 {
		t.Errorf("aim offset changed: got %v, want 40", got)
	}
}

// TestLerpYawToAimConservesTotalAim 测试转移不改变合成后的绝对瞄准方向
func TestLerpYawToAimConservesTotalAim(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)
	y.UpdateYaw(50, 1.0/60.0)

	before := yawAngleOf(y.AimHeading())
	for i := 0; i < 50; i++ {
		y.LerpYawToAim(0.1, 1.0/60.0)
	}
	after := yawAngleOf(y.AimHeading())

	if math.Abs(after-before) > 1e-6 {
		t.Errorf("total aim drifted during steering: %v -> %v", before, after)
	}
	// 偏移确实在逐帧转移
	if y.AimYawDiff() >= 50 {
		t.Errorf("no transfer happened: offset still %v", y.AimYawDiff())
	}
}

// TestLerpYawToAimHeadingConstraint 测试朝向约束限制身体转动
func TestLerpYawToAimHeadingConstraint(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)
	y.SetHeadingConstraint(NewAngularConstraint(types.Vec3Forward, 60, 0.5, 0.25, 10))

	// 瞄准偏移 90°，全量转移也不能让身体越过 ±30° 窗口
	y.UpdateYaw(90, 1.0/60.0)
	totalBefore := yawAngleOf(y.AimHeading())
	y.LerpYawToAim(1, 1.0/60.0)

	if got := yawAngleOf(y.Heading()); got > 30+1e-6 {
		t.Errorf("heading passed its constraint: got %v, want <= 30", got)
	}
	// 守恒：被约束截住的部分留在瞄准偏移里
	if got := yawAngleOf(y.AimHeading()); math.Abs(got-totalBefore) > 1e-6 {
		t.Errorf("total aim changed: got %v, want %v", got, totalBefore)
	}
}

// TestLerpYawToAimZeroAmountConstraintCorrection 测试 amount=0 时仍执行约束回正
func TestLerpYawToAimZeroAmountConstraintCorrection(t *testing.T) {
	y := NewYawAxis(types.Vec3Up, types.Vec3Forward, true)

	// 先让身体转到 50°（无约束时直接转移）
	y.UpdateYaw(50, 1.0/60.0)
	y.LerpYawToAim(1, 1.0/60.0)
	if got := yawAngleOf(y.Heading()); math.Abs(got-50) > 1e-6 {
		t.Fatalf("setup heading: got %v, want 50", got)
	}

	// 设一个把身体排除在外的窗口，amount=0 也应逐帧拉回
	y.SetHeadingConstraint(NewAngularConstraint(types.Vec3Forward, 60, 0.5, 0.25, 10))
	first := yawAngleOf(y.Heading())
	y.LerpYawToAim(0, 1.0/60.0)
	second := yawAngleOf(y.Heading())
	if second >= first {
		t.Errorf("no constraint correction: %v -> %v", first, second)
	}

	for i := 0; i < 600; i++ {
		y.LerpYawToAim(0, 1.0/60.0)
	}
	if got := yawAngleOf(y.Heading()); math.Abs(got-30) > 0.26 {
		t.Errorf("correction did not converge: got %v, want ~30", got)
	}
}
