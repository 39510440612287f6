package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form3/must3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Sphere returns the metric signed distance field of a sphere of given radius.
func Sphere(radius float64) (s implicit.Field3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Sphere(radius), err
}

// SphereSquared returns the squared-distance form of the sphere field,
// |p|^2 - radius^2. See must3.SphereSquared for the level-set caveat.
func SphereSquared(radius float64) (s implicit.Field3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.SphereSquared(radius), err
}
