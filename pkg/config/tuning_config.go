package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/fpsrig/pkg/game"
	"github.com/gonewx/fpsrig/pkg/input"
	"github.com/gonewx/fpsrig/pkg/utils"
)

// TuningConfig 手感调参配置数据结构
// 汇总了视角控制、鼠标输入整形和角色移动的全部可调参数，
// 供策划在不重新编译的情况下调整手感
type TuningConfig struct {
	Aim      AimTuning           `yaml:"aim"`      // 视角控制参数
	Shaper   input.ShaperTuning  `yaml:"shaper"`   // 鼠标输入整形参数
	Movement game.MovementConfig `yaml:"movement"` // 角色移动参数
}

// AimTuning 视角控制调参
// 定义俯仰范围、约束回弹以及航向跟随速率
type AimTuning struct {
	MaxPitch            float64 `yaml:"maxPitch"`            // 俯仰角绝对上限（度），默认 89
	PitchMin            float64 `yaml:"pitchMin"`            // 俯仰下限（度，输入符号，向下为正），默认 -maxPitch
	PitchMax            float64 `yaml:"pitchMax"`            // 俯仰上限（度，输入符号），默认 +maxPitch
	SteeringRate        float64 `yaml:"steeringRate"`        // 航向跟随速率 [0,1]，默认 1（刚性跟随）
	TurnRateMultiplier  float64 `yaml:"turnRateMultiplier"`  // 输入转角倍率 [0,1]，默认 1
	ConstraintDamping   float64 `yaml:"constraintDamping"`   // 约束回弹阻尼 [0,1]，默认 0.5
	ConstraintTolerance float64 `yaml:"constraintTolerance"` // 约束回弹容差（度），默认 0.25
	FalloffDegrees      float64 `yaml:"falloffDegrees"`      // 约束边缘衰减带宽度（度），默认 10
}

// DefaultTuningConfig 返回所有参数均为默认值的调参配置
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		Aim: AimTuning{
			MaxPitch:            89,
			PitchMin:            -89,
			PitchMax:            89,
			SteeringRate:        1,
			TurnRateMultiplier:  1,
			ConstraintDamping:   0.5,
			ConstraintTolerance: 0.25,
			FalloffDegrees:      10,
		},
		Shaper:   input.DefaultShaperTuning(),
		Movement: game.DefaultMovementConfig(),
	}
}

// LoadTuningConfig 从YAML文件加载调参配置
// 缺失的字段保持默认值，超出合法区间的字段被钳制到区间内
//
// 参数：
//
//	filepath - 配置文件路径（相对或绝对路径）
//
// 返回：
//
//	*TuningConfig - 解析并钳制后的调参配置
//	error - 文件读取或YAML解析失败时返回错误
func LoadTuningConfig(filepath string) (*TuningConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning config file %s: %w", filepath, err)
	}

	config := DefaultTuningConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse tuning config YAML from %s: %w", filepath, err)
	}

	config.Clamp()
	return config, nil
}

// Clamp 将所有参数钳制到合法区间
// 加载外部文件后必须调用，保证下游组件拿到的始终是合法值
func (c *TuningConfig) Clamp() {
	a := &c.Aim
	a.MaxPitch = utils.Clamp(a.MaxPitch, 0, 89)
	a.PitchMin = utils.Clamp(a.PitchMin, -a.MaxPitch, a.MaxPitch)
	a.PitchMax = utils.Clamp(a.PitchMax, a.PitchMin, a.MaxPitch)
	a.SteeringRate = utils.Clamp01(a.SteeringRate)
	a.TurnRateMultiplier = utils.Clamp01(a.TurnRateMultiplier)
	a.ConstraintDamping = utils.Clamp01(a.ConstraintDamping)
	if a.ConstraintTolerance < 0 {
		a.ConstraintTolerance = 0
	}
	if a.FalloffDegrees < 0 {
		a.FalloffDegrees = 0
	}

	s := &c.Shaper
	if s.MinAccelMult < 0 {
		s.MinAccelMult = 0
	}
	if s.MaxAccelMult < s.MinAccelMult {
		s.MaxAccelMult = s.MinAccelMult
	}
	if s.AccelerationCap < 1 {
		s.AccelerationCap = 1
	}
	if s.MinSmoothingTime < 0 {
		s.MinSmoothingTime = 0
	}
	if s.MaxSmoothingTime < s.MinSmoothingTime {
		s.MaxSmoothingTime = s.MinSmoothingTime
	}

	m := &c.Movement
	if m.MoveSpeed < 0 {
		m.MoveSpeed = 0
	}
	if m.Gravity < 0 {
		m.Gravity = 0
	}
	if m.JumpSpeed < 0 {
		m.JumpSpeed = 0
	}
	if m.EyeHeight < 0 {
		m.EyeHeight = 0
	}
}
