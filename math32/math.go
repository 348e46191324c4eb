// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is a float32 based vector, matrix, and math package
// for 3D scene graphs and camera projections.
package math32

import (
	"cmp"
	"math"

	"github.com/chewxy/math32"
)

// The scalar functions forward to chewxy/math32, so that the rest of
// the module only imports this package.

const degToRad = math.Pi / 180

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 { return degrees * degToRad }

// RadToDeg converts radians to degrees.
func RadToDeg(radians float32) float32 { return radians / degToRad }

func Sqrt(x float32) float32 { return math32.Sqrt(x) }

func Sin(x float32) float32 { return math32.Sin(x) }

func Cos(x float32) float32 { return math32.Cos(x) }

func Tan(x float32) float32 { return math32.Tan(x) }

func Atan(x float32) float32 { return math32.Atan(x) }

// Clamp returns x limited to [lo, hi].
func Clamp[T cmp.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}
