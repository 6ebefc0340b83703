package cull

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_VisitsEveryIndexOnce(t *testing.T) {
	d := NewDispatcher(4)

	for _, n := range []int{0, 1, 3, 17, 1000} {
		visits := make([]atomic.Int32, n)
		d.Dispatch(n, func(i int) {
			visits[i].Add(1)
		})
		for i := range visits {
			assert.Equal(t, int32(1), visits[i].Load(), "n=%d index %d", n, i)
		}
	}
}

func TestDispatcher_IsABarrier(t *testing.T) {
	d := NewDispatcher(3)
	out := make([]int, 256)

	for round := 1; round <= 5; round++ {
		d.Dispatch(len(out), func(i int) {
			out[i] += round
		})
	}
	for i := range out {
		assert.Equal(t, 15, out[i])
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, NewDispatcher(0).Workers(), 1)
	assert.Equal(t, 2, NewDispatcher(2).Workers())
}
