package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Defaults(t *testing.T) {
	w := newEngineWindow()
	width, height := w.Size()
	assert.Equal(t, 1280, width)
	assert.Equal(t, 720, height)
	assert.Equal(t, "oxy-cull", w.title)
}

func TestNewEngineWindow_ClampsSize(t *testing.T) {
	tests := []struct {
		name          string
		opts          []WindowBuilderOption
		width, height int
	}{
		{"too small", []WindowBuilderOption{WithWidth(10), WithHeight(10)}, 320, 200},
		{"too large", []WindowBuilderOption{WithWidth(8000), WithHeight(8000)}, 3840, 2160},
		{"custom bounds", []WindowBuilderOption{WithMaxWidth(800), WithMinHeight(600), WithWidth(1024), WithHeight(100)}, 800, 600},
		{"within bounds", []WindowBuilderOption{WithTitle("demo"), WithWidth(640), WithHeight(480)}, 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height := newEngineWindow(tt.opts...).Size()
			assert.Equal(t, tt.width, width)
			assert.Equal(t, tt.height, height)
		})
	}
}

func TestEngineWindow_Resized(t *testing.T) {
	w := newEngineWindow(WithWidth(640), WithHeight(480))
	var calls [][2]int
	w.SetResizeCallback(func(width, height int) {
		calls = append(calls, [2]int{width, height})
	})

	w.resized(800, 600)
	w.resized(800, 600)
	w.resized(0, 0)
	w.resized(1024, 0)
	w.resized(1024, 768)

	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, calls)
	width, height := w.Size()
	assert.Equal(t, 1024, width)
	assert.Equal(t, 768, height)
}

func TestEngineWindow_WithoutPlatform(t *testing.T) {
	w := newEngineWindow()
	updates := 0
	w.SetUpdateCallback(func() { updates++ })

	assert.False(t, w.IsRunning())
	w.ProcessMessages()
	assert.Zero(t, updates)
	assert.Error(t, w.Close())
}
