// Package aim 实现第一人称视角的受约束双轴瞄准控制
//
// 核心是一条逐帧的运动学管线：原始输入增量先累积到 pending 值，
// 每个模拟帧消费一次，经过角度约束（带容差回正和边缘衰减）后
// 合成到朝向状态中。偏航支持"相机瞄准"与"角色朝向"解耦，
// 并通过转向函数随时间把两者重新拉齐。
package aim

import (
	"github.com/gonewx/fpsrig/pkg/types"
	"github.com/gonewx/fpsrig/pkg/utils"
)

// AngularConstraint 角度约束窗口
//
// 以 center 方向为中心、±halfRange 度为合法范围，对每帧待施加的
// 转角做三类处理：
//   - 窗口内：接近边缘时按 falloff 连续衰减输入，并硬性防止单帧越界
//   - 窗口外：按 matchMult 阻尼速率逐帧回正（容差内直接贴齐）
//   - center 在垂直于上轴的平面上投影退化时，本帧视为无约束
type AngularConstraint struct {
	center    types.Vec3 // 约束中心方向（世界系）
	halfRange float64    // 半角范围（度，[0,180]）
	active    bool

	matchMult float64 // 回正速率，由 dampingStrength 预计算
	tolerance float64 // 容差带（度），小于该值直接贴齐
	falloff   float64 // 边缘衰减区宽度（度）
}

// MatchMultFromDamping 由阻尼强度计算回正速率
// 公式：lerp(1, 20, (1-damping)²)，damping 限制在 [0,1]
func MatchMultFromDamping(dampingStrength float64) float64 {
	d := utils.Clamp01(dampingStrength)
	return utils.Lerp(1, 20, (1-d)*(1-d))
}

// NewAngularConstraint 创建角度约束
//
// rangeDegrees 是全角范围；≥360 视为无约束（返回非激活实例）。
// 半角被限制在 [0, 180]。
func NewAngularConstraint(center types.Vec3, rangeDegrees, dampingStrength, toleranceDegrees, falloffDegrees float64) AngularConstraint {
	if rangeDegrees >= 360 {
		return AngularConstraint{}
	}
	return AngularConstraint{
		center:    center,
		halfRange: utils.Clamp(rangeDegrees/2, 0, 180),
		active:    true,
		matchMult: MatchMultFromDamping(dampingStrength),
		tolerance: toleranceDegrees,
		falloff:   falloffDegrees,
	}
}

// Active 返回约束是否生效
func (c *AngularConstraint) Active() bool {
	return c.active
}

// Center 返回约束中心方向
func (c *AngularConstraint) Center() types.Vec3 {
	return c.center
}

// HalfRange 返回半角范围（度）
func (c *AngularConstraint) HalfRange() float64 {
	return c.halfRange
}

// FilterTurn 对本帧待施加的转角 pending 应用约束
//
// current 是当前的朝向方向，up 是旋转轴。返回调整后的转角。
// 约束未激活、或 center 在垂直于 up 的平面上投影退化时原样返回。
func (c *AngularConstraint) FilterTurn(current, up types.Vec3, pending, dt float64) float64 {
	if !c.active {
		return pending
	}
	// 奇异情况：中心方向与上轴平行，本帧跳过约束
	if c.center.ProjectOnPlane(up).IsZero() {
		return pending
	}
	angle := c.center.SignedAngleAround(current, up)
	return c.constrainTurn(angle, pending, dt)
}

// constrainTurn 标量核心：angle 是当前相对中心的带符号偏角
func (c *AngularConstraint) constrainTurn(angle, pending, dt float64) float64 {
	// minTurn/maxTurn 是恰好落在下/上边界所需的转角
	minTurn := -c.halfRange - angle
	maxTurn := c.halfRange - angle

	switch {
	case minTurn > 0:
		// 已越过下边界：阻尼回正，容差内贴齐
		correction := minTurn
		if correction > c.tolerance {
			correction *= utils.Clamp01(dt * c.matchMult)
		}
		if pending < correction {
			pending = correction
		}
		return utils.Clamp(pending, correction, maxTurn)

	case maxTurn < 0:
		// 已越过上边界：镜像处理
		correction := maxTurn
		if -correction > c.tolerance {
			correction *= utils.Clamp01(dt * c.matchMult)
		}
		if pending > correction {
			pending = correction
		}
		return utils.Clamp(pending, minTurn, correction)

	default:
		// 窗口内：边缘衰减后硬性防过冲
		if c.falloff > 0 {
			if pending > 0 {
				pending *= utils.Clamp01(maxTurn / c.falloff)
			} else if pending < 0 {
				pending *= utils.Clamp01(-minTurn / c.falloff)
			}
		}
		return utils.Clamp(pending, minTurn, maxTurn)
	}
}
