package game

import (
	"math"
	"testing"

	"github.com/gonewx/fpsrig/pkg/types"
)

const moveDT = 1.0 / 60.0

// TestMovementIdleStaysGrounded 测试无输入时站在原地
func TestMovementIdleStaysGrounded(t *testing.T) {
	m := NewMovement(DefaultMovementConfig())

	for i := 0; i < 60; i++ {
		m.Step(moveDT, types.Vec3Zero, false)
	}

	if !m.Grounded() {
		t.Error("idle character left the ground")
	}
	pos := m.Position()
	if pos.X != 0 || pos.Z != 0 {
		t.Errorf("idle character drifted: got %v", pos)
	}
	if math.Abs(pos.Y-DefaultMovementConfig().EyeHeight) > 1e-9 {
		t.Errorf("eye height: got %v, want %v", pos.Y, DefaultMovementConfig().EyeHeight)
	}
}

// TestMovementHorizontal 测试水平移动速度
func TestMovementHorizontal(t *testing.T) {
	cfg := DefaultMovementConfig()
	m := NewMovement(cfg)

	// 1 秒匀速前进
	for i := 0; i < 60; i++ {
		m.Step(moveDT, types.Vec3Forward, false)
	}

	if got := m.Position().Z; math.Abs(got-cfg.MoveSpeed) > 0.01 {
		t.Errorf("distance after 1s: got %v, want %v", got, cfg.MoveSpeed)
	}
	if got := m.Speed(); math.Abs(got-cfg.MoveSpeed) > 1e-9 {
		t.Errorf("Speed(): got %v, want %v", got, cfg.MoveSpeed)
	}
}

// TestMovementWishDirNormalized 测试斜向移动不超速
func TestMovementWishDirNormalized(t *testing.T) {
	cfg := DefaultMovementConfig()
	m := NewMovement(cfg)

	m.Step(moveDT, types.Vec3{X: 1, Z: 1}, false)
	if got := m.Speed(); got > cfg.MoveSpeed+1e-9 {
		t.Errorf("diagonal speed: got %v, want <= %v", got, cfg.MoveSpeed)
	}
}

// TestMovementJumpAndLand 测试跳跃、滞空和落地
func TestMovementJumpAndLand(t *testing.T) {
	cfg := DefaultMovementConfig()
	m := NewMovement(cfg)

	m.Step(moveDT, types.Vec3Zero, true)
	if m.Grounded() {
		t.Fatal("still grounded right after jump")
	}

	// 跳跃顶点高度约 v²/2g
	apex := 0.0
	landed := false
	for i := 0; i < 600; i++ {
		m.Step(moveDT, types.Vec3Zero, false)
		if h := m.Position().Y - cfg.EyeHeight; h > apex {
			apex = h
		}
		if m.Grounded() {
			landed = true
			break
		}
	}

	if !landed {
		t.Fatal("character never landed")
	}
	wantApex := cfg.JumpSpeed * cfg.JumpSpeed / (2 * cfg.Gravity)
	if apex < wantApex*0.8 || apex > wantApex*1.2 {
		t.Errorf("jump apex: got %v, want ~%v", apex, wantApex)
	}

	// 落地后高度恢复
	if got := m.Position().Y; math.Abs(got-cfg.EyeHeight) > 1e-9 {
		t.Errorf("height after landing: got %v, want %v", got, cfg.EyeHeight)
	}
}

// TestMovementAirborneJumpIgnored 测试滞空时跳跃请求被忽略
func TestMovementAirborneJumpIgnored(t *testing.T) {
	m := NewMovement(DefaultMovementConfig())

	m.Step(moveDT, types.Vec3Zero, true)
	vy := m.Velocity().Y
	m.Step(moveDT, types.Vec3Zero, true) // 空中再按跳跃

	if m.Velocity().Y > vy {
		t.Errorf("airborne jump changed velocity: %v -> %v", vy, m.Velocity().Y)
	}
}

// TestMovementZeroDT 测试 dt≤0 时不推进
func TestMovementZeroDT(t *testing.T) {
	m := NewMovement(DefaultMovementConfig())
	before := m.Position()
	m.Step(0, types.Vec3Forward, true)
	if m.Position() != before {
		t.Errorf("position changed with dt=0: %v -> %v", before, m.Position())
	}
}

// TestAnimatorEvents 测试落地/起跳事件从状态变化推导
func TestAnimatorEvents(t *testing.T) {
	a := NewAnimator(false)

	a.Apply(AnimationParams{Grounded: false, Speed: 1})
	a.Apply(AnimationParams{Grounded: true, Speed: 1})

	got := a.Params()
	if !got.Grounded || got.Speed != 1 {
		t.Errorf("Params(): got %+v", got)
	}
}
