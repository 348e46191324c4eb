// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// SetPerspective sets this matrix to a perspective projection matrix
// with the specified vertical field of view in degrees,
// aspect ratio (width/height) and near and far planes.
func (m *Matrix4) SetPerspective(fov, aspect, near, far float32) {
	f := 1 / Tan(DegToRad(fov)*0.5)
	*m = Matrix4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
}

// SetOrthographic sets this matrix to an orthographic projection matrix
// for the given view volume.
func (m *Matrix4) SetOrthographic(left, right, top, bottom, near, far float32) {
	*m = Matrix4{}
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
}

// SetLookAt sets this matrix to the view matrix of an eye at the given
// position looking at target, with the given up direction.
// If up is parallel to the view direction, the Z axis is used instead.
func (m *Matrix4) SetLookAt(eye, target, up Vector3) {
	z := eye.Sub(target).Normal()
	if z.IsNil() {
		z = Vec3(0, 0, 1)
	}
	x := up.Cross(z).Normal()
	if x.IsNil() {
		x = Vec3(0, 0, 1).Cross(z).Normal()
	}
	y := z.Cross(x)
	*m = Matrix4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// MulVector3 returns the point v transformed by this matrix,
// without the perspective divide.
func (m *Matrix4) MulVector3(v Vector3) Vector3 {
	return Vec3(
		m[0]*v.X+m[4]*v.Y+m[8]*v.Z+m[12],
		m[1]*v.X+m[5]*v.Y+m[9]*v.Z+m[13],
		m[2]*v.X+m[6]*v.Y+m[10]*v.Z+m[14],
	)
}
