package game

import (
	"github.com/gonewx/fpsrig/pkg/types"
)

// MovementConfig 角色移动积分器的配置
type MovementConfig struct {
	// MoveSpeed 水平移动速度（米/秒）
	MoveSpeed float64 `yaml:"moveSpeed"`
	// Gravity 重力加速度（米/秒²，正值向下）
	Gravity float64 `yaml:"gravity"`
	// JumpSpeed 跳跃初速度（米/秒）
	JumpSpeed float64 `yaml:"jumpSpeed"`
	// EyeHeight 眼睛离脚底的高度（米）
	EyeHeight float64 `yaml:"eyeHeight"`
}

// DefaultMovementConfig 返回默认移动配置
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		MoveSpeed: 6.0,
		Gravity:   20.0,
		JumpSpeed: 7.0,
		EyeHeight: 1.6,
	}
}

// Movement 角色移动积分器
//
// 直接数值积分：水平速度由意图方向直接给定，垂直方向施加重力，
// 地面是 Y=0 的平面。没有状态机，每帧一次 Step。
// position 是眼睛位置（脚底在 position.Y - EyeHeight）。
type Movement struct {
	cfg MovementConfig

	position types.Vec3
	velocity types.Vec3
	grounded bool
}

// NewMovement 创建移动积分器，初始站在地面原点
func NewMovement(cfg MovementConfig) *Movement {
	if cfg.MoveSpeed <= 0 {
		cfg.MoveSpeed = DefaultMovementConfig().MoveSpeed
	}
	if cfg.Gravity <= 0 {
		cfg.Gravity = DefaultMovementConfig().Gravity
	}
	if cfg.EyeHeight <= 0 {
		cfg.EyeHeight = DefaultMovementConfig().EyeHeight
	}
	return &Movement{
		cfg:      cfg,
		position: types.Vec3{Y: cfg.EyeHeight},
		grounded: true,
	}
}

// SetConfig 替换移动参数，保留当前位置和速度
// 供调参配置热重载时调用
func (m *Movement) SetConfig(cfg MovementConfig) {
	m.cfg = cfg
}

// Position 返回眼睛位置
func (m *Movement) Position() types.Vec3 {
	return m.position
}

// Velocity 返回当前速度
func (m *Movement) Velocity() types.Vec3 {
	return m.velocity
}

// Grounded 返回是否站在地面上
func (m *Movement) Grounded() bool {
	return m.grounded
}

// Speed 返回水平速度大小（动画参数用）
func (m *Movement) Speed() float64 {
	return (types.Vec3{X: m.velocity.X, Z: m.velocity.Z}).Length()
}

// Step 推进一帧
//
// wishDir 是世界坐标系下的水平移动意图（由朝向和 WASD 合成，
// 调用方负责归一化），jump 为本帧是否请求跳跃。
// dt ≤ 0 时不做任何事。
func (m *Movement) Step(dt float64, wishDir types.Vec3, jump bool) {
	if dt <= 0 {
		return
	}

	// 水平速度直接由意图给定
	flat := wishDir.ProjectOnPlane(types.Vec3Up)
	if !flat.IsZero() {
		flat = flat.Normalized()
	}
	m.velocity.X = flat.X * m.cfg.MoveSpeed
	m.velocity.Z = flat.Z * m.cfg.MoveSpeed

	// 跳跃
	if jump && m.grounded {
		m.velocity.Y = m.cfg.JumpSpeed
		m.grounded = false
	}

	// 重力
	if !m.grounded {
		m.velocity.Y -= m.cfg.Gravity * dt
	}

	// 位置积分
	m.position = m.position.Add(m.velocity.Scale(dt))

	// 地面检测：地板在 Y=0
	feetY := m.position.Y - m.cfg.EyeHeight
	if feetY <= 0 {
		m.position.Y = m.cfg.EyeHeight
		m.velocity.Y = 0
		m.grounded = true
	} else {
		m.grounded = false
	}
}
