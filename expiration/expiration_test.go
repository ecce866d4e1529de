package expiration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastFrame(t *testing.T) {
	var s LastFrame
	assert.False(t, s.IsExpired(7, 7))
	assert.True(t, s.IsExpired(6, 7))
	assert.True(t, s.IsExpired(math.MaxUint32, 0))
}

func TestKeepFramesAcrossWraparound(t *testing.T) {
	s := KeepFrames{N: 2}
	assert.False(t, s.IsExpired(10, 12))
	assert.True(t, s.IsExpired(10, 13))

	// used two frames before the counter wrapped
	assert.False(t, s.IsExpired(math.MaxUint32-1, 0))
	assert.True(t, s.IsExpired(math.MaxUint32-2, 0))

	assert.Equal(t, LastFrame{}.IsExpired(3, 4), KeepFrames{}.IsExpired(3, 4))
}
