package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Source 每帧提供原始的 2D 视角增量
//
// 控制器核心不关心增量来自哪里：真实设备、录制回放或测试脚本
// 都通过这个接口注入。
type Source interface {
	// LookDelta 返回自上一帧以来的视角增量（设备单位）
	LookDelta() (float64, float64)
}

// MouseSource 基于 ebiten 光标位置差分的鼠标增量源
//
// 配合 ebiten.CursorModeCaptured 使用：捕获模式下光标位置
// 不受窗口边界限制，差分即为原始移动增量。
// 第一帧返回零增量（没有上一帧位置可参考）。
type MouseSource struct {
	lastX       int
	lastY       int
	initialized bool
}

// NewMouseSource 创建鼠标增量源
func NewMouseSource() *MouseSource {
	return &MouseSource{}
}

// LookDelta 返回自上一帧以来的光标移动增量
func (m *MouseSource) LookDelta() (float64, float64) {
	x, y := ebiten.CursorPosition()
	if !m.initialized {
		m.lastX, m.lastY = x, y
		m.initialized = true
		return 0, 0
	}
	dx := float64(x - m.lastX)
	dy := float64(y - m.lastY)
	m.lastX, m.lastY = x, y
	return dx, dy
}

// Reset 丢弃上一帧位置（例如重新捕获光标后调用，避免跳变）
func (m *MouseSource) Reset() {
	m.initialized = false
}

// FuncSource 把函数适配成 Source，测试和回放工具使用
type FuncSource func() (float64, float64)

// LookDelta 实现 Source 接口
func (f FuncSource) LookDelta() (float64, float64) {
	return f()
}
