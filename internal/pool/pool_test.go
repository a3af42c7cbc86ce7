package pool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/thatguystone/cog/check"
)

func TestRunner(t *testing.T) {
	c := check.New(t)

	count := uint64(0)

	r := NewRunner(0)
	for i := 0; i < 512; i++ {
		r.Do(func() {
			atomic.AddUint64(&count, 1)
			time.Sleep(time.Microsecond)
		})
	}

	r.Wait()
	c.Equal(atomic.LoadUint64(&count), uint64(512))
}

func TestEachByIndex(t *testing.T) {
	c := check.New(t)

	out := make([]int, 100)
	Each(len(out), func(i int) {
		out[i] = i * i
	})

	for i, v := range out {
		c.Equal(v, i*i)
	}
}

func TestEachEmpty(t *testing.T) {
	c := check.New(t)

	c.NotPanics(func() {
		Each(0, func(int) { panic("called") })
	})
}

func TestDoAfterWait(t *testing.T) {
	c := check.New(t)

	r := NewRunner(1)
	r.Wait()

	c.Panics(func() {
		r.Do(func() {})
	})
}
