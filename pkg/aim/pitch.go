package aim

import (
	"github.com/gonewx/fpsrig/pkg/types"
	"github.com/gonewx/fpsrig/pkg/utils"
)

// DefaultMaxPitch 俯仰角的固定硬边界（度）
const DefaultMaxPitch = 89.0

// PitchAxis 单轴俯仰状态
//
// 俯仰没有"中心方向"的概念，直接在固定局部系里用标量角度表示，
// 上下边界独立处理，使用与 AngularConstraint 相同的容差/阻尼/
// 防过冲逻辑。
//
// 符号约定：原始输入的正俯仰是"向下看"，内部存储取负
// （即存储值为正表示抬头）。这是面向相机端代码的既定契约，
// 不能改动。
type PitchAxis struct {
	current float64 // 当前俯仰角（度，折叠到 (-180,180]）

	min float64 // 下限（度）
	max float64 // 上限（度）

	maxPitch  float64 // 限制值本身的硬边界（±maxPitch）
	matchMult float64
	tolerance float64
}

// NewPitchAxis 创建俯仰轴
// maxPitch ≤ 0 时使用 DefaultMaxPitch
func NewPitchAxis(maxPitch, dampingStrength, toleranceDegrees float64) PitchAxis {
	if maxPitch <= 0 {
		maxPitch = DefaultMaxPitch
	}
	return PitchAxis{
		maxPitch:  maxPitch,
		min:       -maxPitch,
		max:       maxPitch,
		matchMult: MatchMultFromDamping(dampingStrength),
		tolerance: toleranceDegrees,
	}
}

// Pitch 返回当前俯仰角（内部符号约定：正值为抬头）
func (a *PitchAxis) Pitch() float64 {
	return a.current
}

// Limits 返回当前的 (min, max) 限制
func (a *PitchAxis) Limits() (float64, float64) {
	return a.min, a.max
}

// SetLimits 设置俯仰限制
//
// 调用方按原始输入符号传入"向下为正"的 (min, max)，内部存储
// 符号相反，因此这里执行交换取负：
//
//	storedMin = clamp(-max, -maxPitch, maxPitch)
//	storedMax = clamp(-min, -maxPitch, maxPitch)
//
// 这个交换是有意为之的既定语义，与相机端约定配套。
func (a *PitchAxis) SetLimits(min, max float64) {
	a.min = utils.Clamp(-max, -a.maxPitch, a.maxPitch)
	a.max = utils.Clamp(-min, -a.maxPitch, a.maxPitch)
}

// ResetLimits 恢复为无额外限制（±maxPitch）
func (a *PitchAxis) ResetLimits() {
	a.min = -a.maxPitch
	a.max = a.maxPitch
}

// ResetLocal 将俯仰角归零
func (a *PitchAxis) ResetLocal() {
	a.current = 0
}

// Update 消费本帧待施加的俯仰增量
//
// pendingPitch 使用原始输入符号（正值向下看），这里取负后合成。
// 上下边界独立做容差/阻尼/防过冲处理。
func (a *PitchAxis) Update(pendingPitch, dt float64) {
	delta := -pendingPitch

	minTurn := a.min - a.current
	maxTurn := a.max - a.current

	switch {
	case minTurn > 0:
		// 当前低于下限：阻尼回正
		correction := minTurn
		if correction > a.tolerance {
			correction *= utils.Clamp01(dt * a.matchMult)
		}
		if delta < correction {
			delta = correction
		}
		delta = utils.Clamp(delta, correction, maxTurn)

	case maxTurn < 0:
		// 当前高于上限：镜像处理
		correction := maxTurn
		if -correction > a.tolerance {
			correction *= utils.Clamp01(dt * a.matchMult)
		}
		if delta > correction {
			delta = correction
		}
		delta = utils.Clamp(delta, minTurn, correction)

	default:
		// 区间内：硬性防过冲，任意大的单帧输入也不越界
		delta = utils.Clamp(delta, minTurn, maxTurn)
	}

	a.current = types.WrapAngle180(a.current + delta)
}
