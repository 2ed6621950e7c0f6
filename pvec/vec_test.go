package pvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul3(t *testing.T) {
	got := Mul3(Vec3{2, 3, 4}, Vec3{5, 6, 7})
	assert.Equal(t, Vec3{10, 18, 28}, got)
}

func TestNormalizeSafeZero(t *testing.T) {
	got := NormalizeSafe(Vec3{0, 0, 0})
	assert.Equal(t, Vec3{0, 0, 0}, got)
}

func TestNormalizeSafeUnit(t *testing.T) {
	got := NormalizeSafe(Vec3{3, 0, 4})
	assert.InDelta(t, 1.0, got.Len(), 1e-6)
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Errorf("expected unclamped value to pass through")
	}
	if Clamp(-1, 0, 10) != 0 {
		t.Errorf("expected low clamp")
	}
	if Clamp(11, 0, 10) != 10 {
		t.Errorf("expected high clamp")
	}
}
