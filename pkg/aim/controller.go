package aim

import (
	"fmt"
	"log"

	"github.com/gonewx/fpsrig/pkg/types"
	"github.com/gonewx/fpsrig/pkg/utils"
)

const (
	// pauseEpsilon 暂停判定阈值：dt 低于该值时整帧跳过，
	// 避免零时间步长下的除法和缩放伪影
	pauseEpsilon = 1e-6

	// DefaultConstraintDamping 约束回正的默认阻尼强度
	DefaultConstraintDamping = 0.5
	// DefaultConstraintTolerance 约束容差带默认宽度（度）
	DefaultConstraintTolerance = 0.25
	// DefaultFalloffDegrees 约束边缘衰减区默认宽度（度）
	DefaultFalloffDegrees = 10.0

	// steeringAmountMin/Max 转向速率在 (0,1) 区间映射到的每帧转移比例
	steeringAmountMin = 0.0025
	steeringAmountMax = 0.25
)

// Config 控制器的初始化配置
//
// 数值越界时按文档约定静默收敛到合法范围，不报错；
// 结构性错误（轴退化、前方向与上轴平行）返回 error 并使
// 控制器处于惰性状态。
type Config struct {
	// Up 上轴，零向量时默认 +Y
	Up types.Vec3
	// Forward 角色朝向的参考前方向，零向量时默认 +Z
	Forward types.Vec3
	// AimForward 相机瞄准的参考前方向；与 Forward 在水平面上
	// 不一致时控制器进入解耦模式（初始化后不可切换）
	AimForward types.Vec3

	// MaxPitch 俯仰硬边界（度），≤0 时取 DefaultMaxPitch
	MaxPitch float64
	// PitchMin/PitchMax 初始俯仰限制（原始输入符号，向下为正）
	PitchMin float64
	PitchMax float64

	// SteeringRate 解耦模式下朝向追赶瞄准的速率 [0,1]
	SteeringRate float64
	// TurnRateMultiplier 旋转输入的整体倍率 [0,1]
	TurnRateMultiplier float64

	// ConstraintDamping 约束回正阻尼强度 [0,1]，0 时取默认值
	ConstraintDamping float64
	// ConstraintTolerance 约束容差带（度），0 时取默认值
	ConstraintTolerance float64
	// FalloffDegrees 约束边缘衰减区（度），0 时取默认值
	FalloffDegrees float64
}

// DefaultConfig 返回默认配置（耦合模式、±89° 俯仰、全速转向）
func DefaultConfig() Config {
	return Config{
		Up:                  types.Vec3Up,
		Forward:             types.Vec3Forward,
		MaxPitch:            DefaultMaxPitch,
		PitchMin:            -DefaultMaxPitch,
		PitchMax:            DefaultMaxPitch,
		SteeringRate:        1,
		TurnRateMultiplier:  1,
		ConstraintDamping:   DefaultConstraintDamping,
		ConstraintTolerance: DefaultConstraintTolerance,
		FalloffDegrees:      DefaultFalloffDegrees,
	}
}

// Controller 瞄准控制器（编排器）
//
// 每个模拟帧执行一次固定管线：
//
//	消费 pendingYaw → 偏航约束与合成 → 消费 pendingPitch →
//	俯仰约束与合成 → 转向（解耦模式下朝向追赶瞄准）
//
// 输入贡献通过 AddYaw/AddPitch/AddRotation 在帧间线性累积，
// 由 Update 消费并清零。所有状态变更都发生在模拟线程上，
// 不需要加锁。
type Controller struct {
	valid   bool
	enabled bool

	yaw   YawAxis
	pitch PitchAxis

	pendingYaw   float64
	pendingPitch float64

	steeringRate       float64
	turnRateMultiplier float64

	damping   float64
	tolerance float64
	falloff   float64
}

// NewController 创建瞄准控制器
//
// 配置存在结构性错误时返回 error，同时返回一个 valid=false 的
// 惰性实例：后续的 Update 和输入调用都会变成空操作，调用方
// 可以选择忽略错误继续运行。
func NewController(cfg Config) (*Controller, error) {
	up := cfg.Up
	if up.IsZero() {
		up = types.Vec3Up
	}
	up = up.Normalized()

	forward := cfg.Forward
	if forward.IsZero() {
		forward = types.Vec3Forward
	}

	c := &Controller{
		steeringRate:       utils.Clamp01(cfg.SteeringRate),
		turnRateMultiplier: utils.Clamp01(cfg.TurnRateMultiplier),
		damping:            cfg.ConstraintDamping,
		tolerance:          cfg.ConstraintTolerance,
		falloff:            cfg.FalloffDegrees,
	}
	if c.damping == 0 {
		c.damping = DefaultConstraintDamping
	}
	c.damping = utils.Clamp01(c.damping)
	if c.tolerance == 0 {
		c.tolerance = DefaultConstraintTolerance
	}
	if c.falloff == 0 {
		c.falloff = DefaultFalloffDegrees
	}

	// 前方向必须在垂直于上轴的平面上有非退化投影
	flatForward := forward.ProjectOnPlane(up)
	if flatForward.IsZero() {
		log.Printf("[Aim] Invalid config: forward is parallel to up axis, controller disabled")
		return c, fmt.Errorf("aim: forward direction is parallel to the up axis")
	}
	flatForward = flatForward.Normalized()

	// 瞄准参考方向与角色参考方向在水平面上不一致 → 解耦模式
	decoupled := false
	if !cfg.AimForward.IsZero() {
		flatAim := cfg.AimForward.ProjectOnPlane(up)
		if flatAim.IsZero() {
			log.Printf("[Aim] Invalid config: aim forward is parallel to up axis, controller disabled")
			return c, fmt.Errorf("aim: aim forward direction is parallel to the up axis")
		}
		if flatAim.Normalized().Sub(flatForward).Length() > 1e-6 {
			decoupled = true
		}
	}

	c.yaw = NewYawAxis(up, flatForward, decoupled)
	c.pitch = NewPitchAxis(cfg.MaxPitch, c.damping, c.tolerance)
	c.pitch.SetLimits(cfg.PitchMin, cfg.PitchMax)

	// 解耦模式下把初始瞄准偏移对齐到 AimForward
	if decoupled {
		offset := flatForward.SignedAngleAround(cfg.AimForward.ProjectOnPlane(up).Normalized(), up)
		c.yaw.aimOffset = types.QuatAngleAxis(offset, up)
	}

	c.valid = true
	c.enabled = true
	return c, nil
}

// Valid 返回控制器是否处于可用状态
func (c *Controller) Valid() bool {
	return c.valid
}

// Enabled 返回是否接受输入
func (c *Controller) Enabled() bool {
	return c.enabled
}

// SetEnabled 开关输入接收
//
// 禁用只阻止新的输入累积，不清空已累积的 pending 值，
// Update 仍会照常消费
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Decoupled 返回是否处于解耦模式（初始化后不可变）
func (c *Controller) Decoupled() bool {
	return c.yaw.decoupled
}

// AddYaw 累积偏航输入（度）
// 帧间多次调用线性求和，由下一次 Update 统一消费
func (c *Controller) AddYaw(degrees float64) {
	if !c.valid || !c.enabled {
		return
	}
	c.pendingYaw += degrees
}

// AddPitch 累积俯仰输入（度，原始输入符号：正值向下看）
func (c *Controller) AddPitch(degrees float64) {
	if !c.valid || !c.enabled {
		return
	}
	c.pendingPitch += degrees
}

// AddRotation 同时累积偏航和俯仰输入（度）
func (c *Controller) AddRotation(yawDegrees, pitchDegrees float64) {
	c.AddYaw(yawDegrees)
	c.AddPitch(pitchDegrees)
}

// AddRotationInput 累积经过整体倍率缩放的旋转输入
// 与 AddRotation 的区别：输入先乘以 turnRateMultiplier
func (c *Controller) AddRotationInput(yawDegrees, pitchDegrees float64) {
	c.AddYaw(yawDegrees * c.turnRateMultiplier)
	c.AddPitch(pitchDegrees * c.turnRateMultiplier)
}

// Update 执行一帧的瞄准管线
//
// dt 低于暂停阈值时整帧跳过（pending 保留到下一个有效帧）。
func (c *Controller) Update(dt float64) {
	if !c.valid || dt < pauseEpsilon {
		return
	}

	pendingYaw := c.pendingYaw
	pendingPitch := c.pendingPitch
	c.pendingYaw = 0
	c.pendingPitch = 0

	c.yaw.UpdateYaw(pendingYaw, dt)
	c.pitch.Update(pendingPitch, dt)
	c.yaw.LerpYawToAim(c.steeringAmount(), dt)
}

// steeringAmount 把转向速率映射为本帧的转移比例
//
//	0 → 0（不主动追赶，仅约束回正）
//	(0,1) → lerp(0.0025, 0.25, rate)（指数式逼近）
//	1 → 1（瞬时全量转移）
func (c *Controller) steeringAmount() float64 {
	switch {
	case c.steeringRate <= 0:
		return 0
	case c.steeringRate >= 1:
		return 1
	default:
		return utils.Lerp(steeringAmountMin, steeringAmountMax, c.steeringRate)
	}
}

// Heading 返回角色朝向方向
func (c *Controller) Heading() types.Vec3 {
	return c.yaw.Heading()
}

// AimHeading 返回瞄准方向的水平分量
func (c *Controller) AimHeading() types.Vec3 {
	return c.yaw.AimHeading()
}

// YawUp 返回旋转上轴
func (c *Controller) YawUp() types.Vec3 {
	return c.yaw.up
}

// Pitch 返回当前俯仰角（度，内部符号约定：正值为抬头）
func (c *Controller) Pitch() float64 {
	return c.pitch.Pitch()
}

// AimYawDiff 返回瞄准相对角色朝向的偏差角（度）
func (c *Controller) AimYawDiff() float64 {
	return c.yaw.AimYawDiff()
}

// Forward 返回包含俯仰的完整瞄准方向
func (c *Controller) Forward() types.Vec3 {
	flat := c.yaw.AimHeading()
	right := c.yaw.up.Cross(flat)
	if right.IsZero() {
		return flat
	}
	// 存储俯仰为正表示抬头：绕右轴的旋转取负号
	return types.QuatAngleAxis(-c.pitch.Pitch(), right.Normalized()).Rotate(flat)
}

// SteeringRate 返回当前转向速率
func (c *Controller) SteeringRate() float64 {
	return c.steeringRate
}

// SetSteeringRate 设置转向速率（收敛到 [0,1]）
func (c *Controller) SetSteeringRate(rate float64) {
	c.steeringRate = utils.Clamp01(rate)
}

// TurnRateMultiplier 返回当前旋转输入倍率
func (c *Controller) TurnRateMultiplier() float64 {
	return c.turnRateMultiplier
}

// SetTurnRateMultiplier 设置旋转输入倍率（收敛到 [0,1]）
func (c *Controller) SetTurnRateMultiplier(mult float64) {
	c.turnRateMultiplier = utils.Clamp01(mult)
}

// SetYawConstraints 设置瞄准方向的约束窗口
// rangeDegrees ≥ 360 等价于解除约束
func (c *Controller) SetYawConstraints(center types.Vec3, rangeDegrees float64) {
	if !c.valid {
		return
	}
	c.yaw.SetYawConstraint(NewAngularConstraint(center, rangeDegrees, c.damping, c.tolerance, c.falloff))
}

// ResetYawConstraints 解除瞄准约束
func (c *Controller) ResetYawConstraints() {
	c.yaw.SetYawConstraint(AngularConstraint{})
}

// SetHeadingConstraints 设置角色朝向的约束窗口
//
// 仅解耦模式下有意义；耦合模式下记录一条诊断日志并忽略，
// 返回 error 供关心的调用方检查。
func (c *Controller) SetHeadingConstraints(center types.Vec3, rangeDegrees float64) error {
	if !c.valid {
		return fmt.Errorf("aim: controller is not valid")
	}
	if !c.yaw.decoupled {
		log.Printf("[Aim] Heading constraints requested while aim/heading are coupled, ignoring")
		return fmt.Errorf("aim: heading constraints require decoupled mode")
	}
	c.yaw.SetHeadingConstraint(NewAngularConstraint(center, rangeDegrees, c.damping, c.tolerance, c.falloff))
	return nil
}

// ResetHeadingConstraints 解除朝向约束
func (c *Controller) ResetHeadingConstraints() {
	c.yaw.SetHeadingConstraint(AngularConstraint{})
}

// SetPitchConstraints 设置俯仰限制（原始输入符号，向下为正）
// 交换取负语义见 PitchAxis.SetLimits
func (c *Controller) SetPitchConstraints(min, max float64) {
	if !c.valid {
		return
	}
	c.pitch.SetLimits(min, max)
}

// ResetPitchConstraints 恢复俯仰限制为 ±maxPitch
func (c *Controller) ResetPitchConstraints() {
	c.pitch.ResetLimits()
}

// ResetPitchLocal 将俯仰角归零
func (c *Controller) ResetPitchLocal() {
	c.pitch.ResetLocal()
}

// ResetAimLocal 清零瞄准偏移（解耦模式下让相机对齐身体朝向）
func (c *Controller) ResetAimLocal() {
	c.yaw.ResetAimLocal()
}

// PendingYaw 返回当前累积的偏航输入（调试用）
func (c *Controller) PendingYaw() float64 {
	return c.pendingYaw
}

// PendingPitch 返回当前累积的俯仰输入（调试用）
func (c *Controller) PendingPitch() float64 {
	return c.pendingPitch
}
