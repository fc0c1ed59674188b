// Package types 定义共享的基础数学类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "math"

// vecEpsilon 向量退化判定阈值
// 长度平方小于该值的向量视为零向量（奇异情况）
const vecEpsilon = 1e-10

// Vec3 三维向量（右手坐标系，+Y 为上）
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// 常用方向常量
var (
	// Vec3Zero 零向量
	Vec3Zero = Vec3{0, 0, 0}
	// Vec3Up 上方向 (+Y)
	Vec3Up = Vec3{0, 1, 0}
	// Vec3Forward 前方向 (+Z)
	Vec3Forward = Vec3{0, 0, 1}
	// Vec3Right 右方向 (+X)
	Vec3Right = Vec3{1, 0, 0}
)

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 标量乘法
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSq 向量长度的平方（避免开方）
func (v Vec3) LengthSq() float64 {
	return v.Dot(v)
}

// IsZero 判断是否为退化向量（长度接近 0）
func (v Vec3) IsZero() bool {
	return v.LengthSq() < vecEpsilon
}

// Normalized 返回单位向量
// 零向量返回零向量（不产生 NaN）
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < math.Sqrt(vecEpsilon) {
		return Vec3Zero
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// ProjectOnPlane 将向量投影到以 normal 为法线的平面上
// 用于把任意方向压平到水平面（约束中心方向的预处理）
func (v Vec3) ProjectOnPlane(normal Vec3) Vec3 {
	n := normal.Normalized()
	return v.Sub(n.Scale(v.Dot(n)))
}

// SignedAngleAround 计算从 v 转到 o 绕 axis 的带符号夹角（度）
// 两个向量会先投影到垂直于 axis 的平面上
// 任一投影退化时返回 0
func (v Vec3) SignedAngleAround(o, axis Vec3) float64 {
	a := v.ProjectOnPlane(axis)
	b := o.ProjectOnPlane(axis)
	if a.IsZero() || b.IsZero() {
		return 0
	}
	a = a.Normalized()
	b = b.Normalized()
	// atan2 形式比 acos 在接近 0°/180° 时更稳定
	sin := a.Cross(b).Dot(axis.Normalized())
	cos := a.Dot(b)
	return math.Atan2(sin, cos) * 180.0 / math.Pi
}
