package implicit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// VecPool serves as a pool of vector and scalar slices for evaluating fields
// on the CPU while reducing garbage generation. Pass a *VecPool as the
// userData argument of Evaluate/Grad calls to have combinators draw their
// scratch buffers from it. A VecPool is not safe for concurrent use.
type VecPool struct {
	V2    bufPool[r2.Vec]
	V3    bufPool[r3.Vec]
	Float bufPool[float64]
}

// GetVecPool asserts the userData as a VecPool. If the assert fails then an
// error is returned with information on what went wrong.
func GetVecPool(userData any) (*VecPool, error) {
	vp, ok := userData.(*VecPool)
	if !ok {
		vper, ok := userData.(interface{ VecPool() *VecPool })
		if !ok {
			return nil, fmt.Errorf("want userData type *implicit.VecPool, got %T", userData)
		}
		vp = vper.VecPool()
		if vp == nil {
			return nil, fmt.Errorf("nil return value from VecPool method of %T", userData)
		}
	}
	return vp, nil
}

// AssertAllReleased checks all buffers are not in use. Should be called after
// ending a run to find buffer leaks.
func (vp *VecPool) AssertAllReleased() error {
	if err := vp.Float.assertAllReleased(); err != nil {
		return err
	}
	if err := vp.V2.assertAllReleased(); err != nil {
		return err
	}
	return vp.V3.assertAllReleased()
}

type bufPool[T any] struct {
	_ins      [][]T
	_acquired []bool
}

func (bp *bufPool[T]) Acquire(minLength int) []T {
	for i, locked := range bp._acquired {
		if !locked && len(bp._ins[i]) >= minLength {
			bp._acquired[i] = true
			return bp._ins[i][:minLength]
		}
	}
	newSlice := make([]T, minLength)
	bp._ins = append(bp._ins, newSlice)
	bp._acquired = append(bp._acquired, true)
	return newSlice
}

func (bp *bufPool[T]) Release(buf []T) error {
	for i, instance := range bp._ins {
		if len(instance) > 0 && len(buf) > 0 && &instance[0] == &buf[0] {
			if !bp._acquired[i] {
				return errors.New("release of unacquired resource")
			}
			bp._acquired[i] = false
			return nil
		}
	}
	return errors.New("release of nonexistent resource")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp._acquired {
		if locked {
			return fmt.Errorf("locked %T resource found, buffer leak?", *new(T))
		}
	}
	return nil
}

// Scratch buffer acquisition used by combinators. When userData carries no
// VecPool the buffers are plain allocations and the release func is a no-op.

func scratchFloats(userData any, n int) ([]float64, func()) {
	vp, err := GetVecPool(userData)
	if err != nil {
		return make([]float64, n), func() {}
	}
	buf := vp.Float.Acquire(n)
	return buf, func() { vp.Float.Release(buf) }
}

func scratchV2(userData any, n int) ([]r2.Vec, func()) {
	vp, err := GetVecPool(userData)
	if err != nil {
		return make([]r2.Vec, n), func() {}
	}
	buf := vp.V2.Acquire(n)
	return buf, func() { vp.V2.Release(buf) }
}

func scratchV3(userData any, n int) ([]r3.Vec, func()) {
	vp, err := GetVecPool(userData)
	if err != nil {
		return make([]r3.Vec, n), func() {}
	}
	buf := vp.V3.Acquire(n)
	return buf, func() { vp.V3.Release(buf) }
}
