package must2

import "fmt"

func lenErr(npos, ndst int) error {
	if npos != ndst {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", npos, ndst)
	}
	return nil
}
