package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// InputSettings 全局输入设置
// 注意：这些设置是全局的，不绑定到特定存档
type InputSettings struct {
	// 灵敏度设置
	HorizontalSensitivity float64 `yaml:"horizontalSensitivity"` // 水平灵敏度 0.01 ~ 1.0
	VerticalSensitivity   float64 `yaml:"verticalSensitivity"`   // 垂直灵敏度 0.01 ~ 1.0
	InvertVertical        bool    `yaml:"invertVertical"`        // 垂直轴反转

	// 平滑设置
	SmoothingEnabled  bool    `yaml:"smoothingEnabled"`  // 平滑开关
	SmoothingStrength float64 `yaml:"smoothingStrength"` // 平滑强度 0.0 ~ 1.0

	// 加速度设置
	AccelerationEnabled  bool    `yaml:"accelerationEnabled"`  // 加速度开关
	AccelerationStrength float64 `yaml:"accelerationStrength"` // 加速度强度 0.0 ~ 1.0
}

// DefaultInputSettings 返回默认设置
func DefaultInputSettings() *InputSettings {
	return &InputSettings{
		HorizontalSensitivity: 0.5,
		VerticalSensitivity:   0.5,
		InvertVertical:        false,
		SmoothingEnabled:      true,
		SmoothingStrength:     0.3,
		AccelerationEnabled:   false,
		AccelerationStrength:  0.5,
	}
}

// SettingsManager 输入设置管理器
// 负责设置的加载、保存、内存管理和变更通知
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *InputSettings // 当前设置
	listeners    []func()       // 变更监听器（整形器订阅以重置平滑状态）
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "input"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultInputSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置。
// 加载成功后数值会被收敛到合法范围并触发变更通知。
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultInputSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultInputSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultInputSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化 YAML 数据
	var loaded InputSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultInputSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	sm.clampAll()
	sm.notify()
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *InputSettings {
	return sm.settings
}

// OnChange 注册设置变更监听器
// 任何设置项变更（包括 Load 成功）后按注册顺序回调
func (sm *SettingsManager) OnChange(f func()) {
	if f == nil {
		return
	}
	sm.listeners = append(sm.listeners, f)
}

// SetHorizontalSensitivity 设置水平灵敏度
//
// 数值会被限制在 0.01 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetHorizontalSensitivity(v float64) {
	sm.settings.HorizontalSensitivity = clampSensitivity(v)
	sm.notify()
}

// SetVerticalSensitivity 设置垂直灵敏度
//
// 数值会被限制在 0.01 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetVerticalSensitivity(v float64) {
	sm.settings.VerticalSensitivity = clampSensitivity(v)
	sm.notify()
}

// SetInvertVertical 设置垂直轴反转
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetInvertVertical(enabled bool) {
	sm.settings.InvertVertical = enabled
	sm.notify()
}

// SetSmoothing 设置平滑开关和强度
//
// 强度会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSmoothing(enabled bool, strength float64) {
	sm.settings.SmoothingEnabled = enabled
	sm.settings.SmoothingStrength = clampStrength(strength)
	sm.notify()
}

// SetAcceleration 设置加速度开关和强度
//
// 强度会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetAcceleration(enabled bool, strength float64) {
	sm.settings.AccelerationEnabled = enabled
	sm.settings.AccelerationStrength = clampStrength(strength)
	sm.notify()
}

// 以下只读方法实现 pkg/input 的 Settings 接口

// HorizontalSensitivity 返回水平灵敏度
func (sm *SettingsManager) HorizontalSensitivity() float64 {
	return sm.settings.HorizontalSensitivity
}

// VerticalSensitivity 返回垂直灵敏度
func (sm *SettingsManager) VerticalSensitivity() float64 {
	return sm.settings.VerticalSensitivity
}

// InvertVertical 返回垂直轴是否反转
func (sm *SettingsManager) InvertVertical() bool {
	return sm.settings.InvertVertical
}

// SmoothingEnabled 返回平滑是否开启
func (sm *SettingsManager) SmoothingEnabled() bool {
	return sm.settings.SmoothingEnabled
}

// SmoothingStrength 返回平滑强度
func (sm *SettingsManager) SmoothingStrength() float64 {
	return sm.settings.SmoothingStrength
}

// AccelerationEnabled 返回加速度是否开启
func (sm *SettingsManager) AccelerationEnabled() bool {
	return sm.settings.AccelerationEnabled
}

// AccelerationStrength 返回加速度强度
func (sm *SettingsManager) AccelerationStrength() float64 {
	return sm.settings.AccelerationStrength
}

// notify 触发所有变更监听器
func (sm *SettingsManager) notify() {
	for _, f := range sm.listeners {
		f()
	}
}

// clampAll 将所有数值收敛到文档约定的合法范围
func (sm *SettingsManager) clampAll() {
	sm.settings.HorizontalSensitivity = clampSensitivity(sm.settings.HorizontalSensitivity)
	sm.settings.VerticalSensitivity = clampSensitivity(sm.settings.VerticalSensitivity)
	sm.settings.SmoothingStrength = clampStrength(sm.settings.SmoothingStrength)
	sm.settings.AccelerationStrength = clampStrength(sm.settings.AccelerationStrength)
}

// clampSensitivity 将灵敏度限制在 0.01 ~ 1.0 范围内
func clampSensitivity(v float64) float64 {
	if v < 0.01 {
		return 0.01
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// clampStrength 将强度限制在 0.0 ~ 1.0 范围内
func clampStrength(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
