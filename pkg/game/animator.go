package game

import "log"

// AnimationParams 每帧送往动画层的参数集合
// 本仓库不包含动画实现，只负责参数搬运和事件日志桩
type AnimationParams struct {
	// Speed 水平移动速度（米/秒）
	Speed float64
	// Grounded 是否在地面上
	Grounded bool
	// Pitch 当前俯仰角（度）
	Pitch float64
	// AimYawDiff 瞄准相对朝向的偏差角（度，上身扭转用）
	AimYawDiff float64
	// WeaponID 当前武器标识
	WeaponID string
}

// Animator 动画参数接收器
type Animator struct {
	verbose bool
	params  AnimationParams

	wasGrounded bool
}

// NewAnimator 创建动画参数接收器
// verbose 为 true 时把事件打到日志（调试用）
func NewAnimator(verbose bool) *Animator {
	return &Animator{verbose: verbose, wasGrounded: true}
}

// Params 返回最近一次应用的参数
func (a *Animator) Params() AnimationParams {
	return a.params
}

// Apply 应用本帧参数，并从状态变化推导落地/起跳事件
func (a *Animator) Apply(p AnimationParams) {
	if p.Grounded && !a.wasGrounded {
		a.OnLand()
	} else if !p.Grounded && a.wasGrounded {
		a.OnJump()
	}
	a.wasGrounded = p.Grounded
	a.params = p
}

// OnJump 起跳事件桩
func (a *Animator) OnJump() {
	if a.verbose {
		log.Printf("[Animator] Jump event")
	}
}

// OnLand 落地事件桩
func (a *Animator) OnLand() {
	if a.verbose {
		log.Printf("[Animator] Land event")
	}
}

// OnWeaponSwitch 武器切换事件桩
func (a *Animator) OnWeaponSwitch(weaponID string) {
	if a.verbose {
		log.Printf("[Animator] Weapon switch event: %s", weaponID)
	}
}
