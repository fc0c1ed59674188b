package aim

import (
	"github.com/gonewx/fpsrig/pkg/types"
)

// YawAxis 偏航状态：角色朝向 + 相机瞄准偏移
//
// 跟踪两个绕上轴的旋转：
//   - heading：角色朝向（身体面对的方向）
//   - aimOffset：相机瞄准相对 heading 的偏移，仅解耦模式下非平凡
//
// 耦合模式下 pendingYaw 直接旋转 heading，aimOffset 恒为单位旋转；
// 解耦模式下 pendingYaw 先合成到 aimOffset，再由转向函数按帧把
// 偏移转移回 heading。转移本身不改变合成后的绝对瞄准方向：
//
//	heading' * aimOffset' == heading * aimOffset
type YawAxis struct {
	up         types.Vec3 // 旋转轴（单位向量）
	refForward types.Vec3 // 参考前方向（heading 为单位旋转时的朝向）

	heading   types.Quat
	aimOffset types.Quat

	decoupled bool

	yawConstraint     AngularConstraint // 作用于瞄准方向
	headingConstraint AngularConstraint // 作用于角色朝向（仅解耦模式）
}

// NewYawAxis 创建偏航轴
// up 和 refForward 必须都已归一化且互不平行（由 Controller 校验）
func NewYawAxis(up, refForward types.Vec3, decoupled bool) YawAxis {
	return YawAxis{
		up:         up,
		refForward: refForward,
		heading:    types.QuatIdentity,
		aimOffset:  types.QuatIdentity,
		decoupled:  decoupled,
	}
}

// Heading 返回角色朝向方向
func (y *YawAxis) Heading() types.Vec3 {
	return y.heading.Rotate(y.refForward)
}

// AimHeading 返回瞄准方向（水平分量，heading 与 aimOffset 的合成）
func (y *YawAxis) AimHeading() types.Vec3 {
	return y.heading.Mul(y.aimOffset).Rotate(y.refForward)
}

// AimYawDiff 返回瞄准相对角色朝向的偏差角（度）
func (y *YawAxis) AimYawDiff() float64 {
	return y.aimOffset.AngleAround(y.up)
}

// HeadingRotation 返回角色朝向的旋转
func (y *YawAxis) HeadingRotation() types.Quat {
	return y.heading
}

// Decoupled 返回是否处于解耦模式
func (y *YawAxis) Decoupled() bool {
	return y.decoupled
}

// SetYawConstraint 设置瞄准方向的约束窗口
func (y *YawAxis) SetYawConstraint(c AngularConstraint) {
	y.yawConstraint = c
}

// SetHeadingConstraint 设置角色朝向的约束窗口
func (y *YawAxis) SetHeadingConstraint(c AngularConstraint) {
	y.headingConstraint = c
}

// YawConstraint 返回当前的瞄准约束
func (y *YawAxis) YawConstraint() *AngularConstraint {
	return &y.yawConstraint
}

// HeadingConstraint 返回当前的朝向约束
func (y *YawAxis) HeadingConstraint() *AngularConstraint {
	return &y.headingConstraint
}

// ResetAimLocal 清零瞄准偏移（不改变角色朝向）
func (y *YawAxis) ResetAimLocal() {
	y.aimOffset = types.QuatIdentity
}

// UpdateYaw 消费本帧待施加的偏航增量
//
// 约束针对瞄准方向（heading 与 aimOffset 的合成）计算，
// 然后把调整后的增量合成进 aimOffset（解耦）或 heading（耦合）。
func (y *YawAxis) UpdateYaw(pendingYaw, dt float64) {
	pendingYaw = y.yawConstraint.FilterTurn(y.AimHeading(), y.up, pendingYaw, dt)
	if pendingYaw == 0 {
		return
	}

	delta := types.QuatAngleAxis(pendingYaw, y.up)
	if y.decoupled {
		y.aimOffset = y.aimOffset.Mul(delta).Normalized()
	} else {
		y.heading = y.heading.Mul(delta).Normalized()
	}
}

// LerpYawToAim 把瞄准偏移按比例转移到角色朝向（转向）
//
// amount ∈ [0,1] 是本帧要转移的偏移比例。设置了朝向约束时，
// 转移量会先经过约束过滤，保证身体永远不会越过自己的朝向窗口；
// amount=0 时仍会执行约束回正（不主动追赶，只做越界修正）。
//
// 转移对合成后的绝对瞄准方向是精确守恒的：向 heading 施加 delta
// 的同时从 aimOffset 中减去同样的 delta。
func (y *YawAxis) LerpYawToAim(amount, dt float64) {
	if !y.decoupled {
		return
	}

	transfer := y.AimYawDiff() * amount
	if y.headingConstraint.active {
		transfer = y.headingConstraint.FilterTurn(y.Heading(), y.up, transfer, dt)
	}
	if transfer == 0 {
		return
	}

	delta := types.QuatAngleAxis(transfer, y.up)
	y.heading = y.heading.Mul(delta).Normalized()
	y.aimOffset = delta.Inverse().Mul(y.aimOffset).Normalized()
}
