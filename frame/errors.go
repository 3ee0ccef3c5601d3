package frame

import "fmt"

// ShapeError reports a payload or axis whose length does not fit the
// frame it is applied to.
type ShapeError struct {
	What string
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s length %d does not match %d", e.What, e.Got, e.Want)
}
