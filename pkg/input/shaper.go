// Package input 提供视角输入的采集与整形
//
// 整形管线固定为：垂直轴反转 → 加速度（速度相关增益）→
// 指数平滑（临界阻尼逼近），加速度与平滑各自独立开关。
// 平滑阶段跨帧保留状态，设置变更时必须通过 Reset 清空。
package input

import (
	"math"

	"github.com/gonewx/fpsrig/pkg/utils"
)

// Settings 输入设置的只读视图
//
// 由设置存储实现（pkg/game.SettingsManager），通过显式注入传给
// 整形器，避免隐藏的全局可变状态。
type Settings interface {
	// HorizontalSensitivity 水平灵敏度 [0.01, 1]
	HorizontalSensitivity() float64
	// VerticalSensitivity 垂直灵敏度 [0.01, 1]
	VerticalSensitivity() float64
	// InvertVertical 是否反转垂直轴
	InvertVertical() bool
	// SmoothingEnabled / SmoothingStrength 平滑开关与强度 [0,1]
	SmoothingEnabled() bool
	SmoothingStrength() float64
	// AccelerationEnabled / AccelerationStrength 加速度开关与强度 [0,1]
	AccelerationEnabled() bool
	AccelerationStrength() float64
}

// ShaperTuning 整形器的调校常量（来自 pkg/config 的调校文件）
type ShaperTuning struct {
	// MinAccelMult/MaxAccelMult 加速度增益区间，按强度插值
	// 增益的单位是 每(单位输入/秒) 的附加倍率
	MinAccelMult float64 `yaml:"minAccelMult"`
	MaxAccelMult float64 `yaml:"maxAccelMult"`
	// AccelerationCap 加速度倍率上限；仅在 >1 时生效
	AccelerationCap float64 `yaml:"accelerationCap"`

	// MinSmoothingTime/MaxSmoothingTime 平滑时间常数区间（秒），按强度插值
	MinSmoothingTime float64 `yaml:"minSmoothingTime"`
	MaxSmoothingTime float64 `yaml:"maxSmoothingTime"`
}

// DefaultShaperTuning 返回默认调校常量
func DefaultShaperTuning() ShaperTuning {
	return ShaperTuning{
		MinAccelMult:     0.0005,
		MaxAccelMult:     0.005,
		AccelerationCap:  5,
		MinSmoothingTime: 0.01,
		MaxSmoothingTime: 0.15,
	}
}

// MouseShaper 鼠标输入整形器
//
// 状态仅在模拟线程上读写；设置属于读多写少的共享配置，
// 单线程假设下无需加锁（多线程移植需要快照或读锁）。
type MouseShaper struct {
	settings Settings
	tuning   ShaperTuning

	// 平滑阶段的跨帧状态
	smoothX float64
	smoothY float64
	velX    float64
	velY    float64
}

// NewMouseShaper 创建整形器并订阅设置变更
//
// notifier 非 nil 时注册 Reset 回调：任何平滑相关设置变更后
// 清空跨帧状态，避免旧的速度累积量污染新参数下的输出。
func NewMouseShaper(settings Settings, tuning ShaperTuning, notifier interface{ OnChange(func()) }) *MouseShaper {
	s := &MouseShaper{
		settings: settings,
		tuning:   tuning,
	}
	if notifier != nil {
		notifier.OnChange(s.Reset)
	}
	return s
}

// SetTuning 替换整形常量并清空跨帧状态
// 供调参配置热重载时调用
func (s *MouseShaper) SetTuning(tuning ShaperTuning) {
	s.tuning = tuning
	s.Reset()
}

// Reset 清空平滑阶段的跨帧状态
func (s *MouseShaper) Reset() {
	s.smoothX = 0
	s.smoothY = 0
	s.velX = 0
	s.velY = 0
}

// Shape 对本帧原始输入增量 (dx, dy) 应用整形
//
// dt 过小时原样返回（避免除零）。输出已乘过灵敏度，
// 可直接作为角度增量送入瞄准控制器。
func (s *MouseShaper) Shape(dx, dy, dt float64) (float64, float64) {
	if dt <= 0 {
		return dx, dy
	}

	// 垂直轴反转在所有整形阶段之前
	if s.settings.InvertVertical() {
		dy = -dy
	}

	if s.settings.AccelerationEnabled() {
		dx, dy = s.accelerate(dx, dy, dt)
	}
	if s.settings.SmoothingEnabled() {
		dx, dy = s.smooth(dx, dy, dt)
	} else {
		// 平滑关闭时保持状态与当前输出一致，
		// 重新开启时不会从陈旧位置跳变
		s.smoothX, s.smoothY = dx, dy
		s.velX, s.velY = 0, 0
	}

	h := utils.Clamp(s.settings.HorizontalSensitivity(), 0.01, 1)
	v := utils.Clamp(s.settings.VerticalSensitivity(), 0.01, 1)
	return dx * h, dy * v
}

// accelerate 速度相关增益：动得越快，增益越高
// multiplier = 1 + (|input|/dt) * lerp(minAccelMult, maxAccelMult, strength)
func (s *MouseShaper) accelerate(dx, dy, dt float64) (float64, float64) {
	speed := math.Sqrt(dx*dx+dy*dy) / dt
	gain := utils.Lerp(s.tuning.MinAccelMult, s.tuning.MaxAccelMult,
		utils.Clamp01(s.settings.AccelerationStrength()))
	mult := 1 + speed*gain

	// 上限仅在配置为 >1 时生效
	if s.tuning.AccelerationCap > 1 && mult > s.tuning.AccelerationCap {
		mult = s.tuning.AccelerationCap
	}
	return dx * mult, dy * mult
}

// smooth 临界阻尼平滑：向原始输入目标逼近，时间常数按强度插值
func (s *MouseShaper) smooth(dx, dy, dt float64) (float64, float64) {
	smoothTime := utils.Lerp(s.tuning.MinSmoothingTime, s.tuning.MaxSmoothingTime,
		utils.Clamp01(s.settings.SmoothingStrength()))

	s.smoothX, s.velX = utils.SmoothDamp(s.smoothX, dx, s.velX, smoothTime, dt)
	s.smoothY, s.velY = utils.SmoothDamp(s.smoothY, dy, s.velY, smoothTime, dt)
	return s.smoothX, s.smoothY
}
