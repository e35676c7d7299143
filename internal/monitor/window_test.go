package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectionWindow_FillsToCapacity(t *testing.T) {
	w := NewDetectionWindow(3)

	assert.False(t, w.Full())
	assert.False(t, w.Unanimous())

	w.Push(true)
	w.Push(true)
	assert.False(t, w.Full())
	assert.True(t, w.Unanimous())

	w.Push(true)
	assert.True(t, w.Full())
	assert.True(t, w.Unanimous())
	assert.Equal(t, 3, w.Len())
}

func TestDetectionWindow_EvictsOldest(t *testing.T) {
	w := NewDetectionWindow(3)

	w.Push(false)
	w.Push(true)
	w.Push(true)
	assert.True(t, w.Full())
	assert.False(t, w.Unanimous())

	// The false entry ages out after one more push
	w.Push(true)
	assert.True(t, w.Full())
	assert.True(t, w.Unanimous())
	assert.Equal(t, 3, w.Len())
}

func TestDetectionWindow_SingleFalseBreaksUnanimity(t *testing.T) {
	w := NewDetectionWindow(3)

	w.Push(true)
	w.Push(true)
	w.Push(true)
	assert.True(t, w.Unanimous())

	w.Push(false)
	assert.True(t, w.Full())
	assert.False(t, w.Unanimous())
}

func TestDetectionWindow_Reset(t *testing.T) {
	w := NewDetectionWindow(2)

	w.Push(true)
	w.Push(true)
	w.Reset()

	assert.Equal(t, 0, w.Len())
	assert.False(t, w.Full())
	assert.False(t, w.Unanimous())
}
