package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Ops(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(-4, 5, 0.5)

	assert.Equal(t, Vec3{-3, 7, 3.5}, a.Add(b))
	assert.Equal(t, Vec3{5, -3, 2.5}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.InDelta(t, -4+10+1.5, a.Dot(b), 1e-12)
	assert.InDelta(t, 5, V3(3, 4, 0).Len(), 1e-12)
	assert.Equal(t, 1.0, a.X())
	assert.Equal(t, 2.0, a.Y())
	assert.Equal(t, 3.0, a.Z())
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		wantHi  float64
		wantLo  float64
	}{
		{"two roots", 1, -4, 3, 3, 1},
		{"double root", 1, -6, 9, 3, 3},
		{"no real roots", 1, 0, 1, math.Inf(1), math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi, lo := SolveQuadratic(tt.a, tt.b, tt.c)
			assert.Equal(t, tt.wantHi, hi)
			assert.Equal(t, tt.wantLo, lo)
		})
	}
}
