package geometry

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDat encodes the boundary in Selig format: a name line followed
// by one "x y" pair per line, the interchange format the external
// solver loads.
func WriteDat(w io.Writer, name string, points []Point) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, name); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%10.6f %10.6f\n", p.X, p.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}
