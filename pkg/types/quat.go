package types

import "math"

// Quat 单位四元数，表示三维旋转
// 采用 (W, X, Y, Z) 存储；所有构造函数保证返回单位四元数
type Quat struct {
	W float64
	X float64
	Y float64
	Z float64
}

// QuatIdentity 单位旋转
var QuatIdentity = Quat{W: 1}

// QuatAngleAxis 构造绕 axis 旋转 degrees 度的四元数
// axis 退化时返回单位旋转
func QuatAngleAxis(degrees float64, axis Vec3) Quat {
	a := axis.Normalized()
	if a.IsZero() {
		return QuatIdentity
	}
	half := degrees * math.Pi / 360.0
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
	}
}

// Mul 四元数乘法（先应用 o，再应用 q）
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Inverse 单位四元数的逆（共轭）
func (q Quat) Inverse() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Normalized 归一化，消除累积的浮点漂移
// 零四元数返回单位旋转
func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l < 1e-12 {
		return QuatIdentity
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate 将向量 v 按该旋转变换
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = q * (0,v) * q^-1 的展开形式
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	return u.Scale(2 * u.Dot(v)).
		Add(v.Scale(s*s - u.Dot(u))).
		Add(u.Cross(v).Scale(2 * s))
}

// AngleAround 提取该旋转绕 axis 的带符号角度（度）
// 对于纯绕 axis 的旋转是精确值；其他旋转返回扭转分量（swing-twist 分解）
func (q Quat) AngleAround(axis Vec3) float64 {
	a := axis.Normalized()
	if a.IsZero() {
		return 0
	}
	// twist = 归一化后的 (W, proj(XYZ, axis))
	d := Vec3{q.X, q.Y, q.Z}.Dot(a)
	tw := Quat{W: q.W, X: a.X * d, Y: a.Y * d, Z: a.Z * d}.Normalized()
	angle := 2 * math.Atan2(d1(tw, a), tw.W) * 180.0 / math.Pi
	return WrapAngle180(angle)
}

// d1 扭转分量在 axis 上的投影长度（带符号）
func d1(q Quat, axis Vec3) float64 {
	return Vec3{q.X, q.Y, q.Z}.Dot(axis)
}

// WrapAngle180 将角度折叠到 (-180, 180] 区间
func WrapAngle180(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
