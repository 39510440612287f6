package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form2/must2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Circle returns the metric signed distance field of a circle of given radius.
func Circle(radius float64) (s implicit.Field2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Circle(radius), err
}

// CircleSquared returns the squared-distance form of the circle field,
// |p|^2 - radius^2. See must2.CircleSquared for the level-set caveat.
func CircleSquared(radius float64) (s implicit.Field2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.CircleSquared(radius), err
}

// Star returns the signed distance field of a regular n-pointed star of outer
// radius radius and sharpness m in [2, n].
func Star(radius float64, n int, m float64) (s implicit.Field2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Star(radius, n, m), err
}
