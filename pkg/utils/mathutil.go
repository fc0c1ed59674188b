// Package utils 提供通用工具函数
package utils

import "math"

// Clamp 将 v 限制在 [min, max] 范围内
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1] 范围内
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp 线性插值：t=0 返回 a，t=1 返回 b
// t 不做范围限制，允许外插
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// SmoothDamp 临界阻尼平滑逼近
//
// 让 current 随时间平滑趋向 target，不产生振荡过冲。
// smoothTime 是时间常数（越大越平滑、延迟越高），velocity 是跨帧保留的
// 速度累积量，由调用方持有并在每次调用时传回。
//
// 参数：
//   - current: 当前值
//   - target: 目标值
//   - velocity: 上一帧的速度累积量
//   - smoothTime: 平滑时间常数（秒），下限 1e-4
//   - dt: 本帧时间步长（秒）
//
// 返回：
//   - 新的当前值
//   - 新的速度累积量（下一帧传回）
func SmoothDamp(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	smoothTime = math.Max(1e-4, smoothTime)
	omega := 2.0 / smoothTime

	// 指数项的三阶有理近似（Game Programming Gems 4 的经典形式）
	x := omega * dt
	exp := 1.0 / (1.0 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	// 防止越过目标
	if (target-current > 0) == (output > target) {
		output = target
		if dt > 0 {
			velocity = (output - target) / dt
		}
	}

	return output, velocity
}

// MoveTowards 以最大步长 maxDelta 将 current 移向 target
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}
