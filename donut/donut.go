// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package donut renders the classic spinning ASCII torus.
//
// The projection follows Andy Sloane's donut math
// (https://www.a1k0n.net/2011/07/20/donut-math.html): a circle of radius R1
// centred R2 from the axis is swept around the y axis, rotated by angles A
// and B, projected with a z-buffer, and shaded by the dot product of the
// surface normal with a light behind and above the viewer.
package donut

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Size is the width and height of a frame in characters.
const Size = 40

// Luminance ramp from darkest to brightest.
const Ramp = ".,-~:;=!*#$@"

const (
	thetaSpacing = 0.07 // step around the tube cross-section
	phiSpacing   = 0.02 // step around the torus axis

	r1 = 1.0
	r2 = 2.0
	k2 = 5.0
	k1 = Size * k2 * 3 / (8 * (r1 + r2))
)

// Frame is one rendered image; cells not covered by the torus are spaces.
type Frame [Size][Size]byte

// String joins the characters of each row with a space and the rows with
// newlines.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(Size * Size * 2)
	for y := range f {
		for x, c := range f[y] {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(c)
		}
		if y < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// RenderFrame draws the torus rotated by a around the x axis and b around
// the z axis.
func RenderFrame(a, b float64) *Frame {
	var frame Frame
	var zbuf [Size][Size]float64
	for y := range frame {
		for x := range frame[y] {
			frame[y][x] = ' '
		}
	}

	sinA, cosA := math.Sincos(a)
	sinB, cosB := math.Sincos(b)

	for theta := 0.0; theta < 2*math.Pi; theta += thetaSpacing {
		sinTheta, cosTheta := math.Sincos(theta)
		circleX := r2 + r1*cosTheta
		circleY := r1 * sinTheta

		for phi := 0.0; phi < 2*math.Pi; phi += phiSpacing {
			sinPhi, cosPhi := math.Sincos(phi)

			x := circleX*(cosB*cosPhi+sinA*sinB*sinPhi) - circleY*cosA*sinB
			y := circleX*(sinB*cosPhi-sinA*cosB*sinPhi) + circleY*cosA*cosB
			z := k2 + cosA*circleX*sinPhi + circleY*sinA
			ooz := 1 / z

			xp := int(Size/2 + k1*ooz*x)
			yp := int(Size/2 - k1*ooz*y)
			if xp < 0 || xp >= Size || yp < 0 || yp >= Size {
				continue
			}

			l := cosPhi*cosTheta*sinB - cosA*cosTheta*sinPhi - sinA*sinTheta +
				cosB*(cosA*sinTheta-cosTheta*sinA*sinPhi)
			lum := int(math.Round(l * 8))
			if lum < 0 || ooz <= zbuf[yp][xp] {
				continue
			}
			zbuf[yp][xp] = ooz
			frame[yp][xp] = Ramp[min(lum, len(Ramp)-1)]
		}
	}
	return &frame
}

// Run writes frames successive frames to w, each preceded by the ANSI
// cursor-home sequence. The angles advance before every frame.
func Run(w io.Writer, frames int, a, b float64) error {
	for i := 0; i < frames; i++ {
		a += thetaSpacing
		b += phiSpacing
		if _, err := fmt.Fprintf(w, "\x1b[H%s\n", RenderFrame(a, b)); err != nil {
			return fmt.Errorf("donut: writing frame %d: %w", i, err)
		}
	}
	return nil
}
