package xfoil

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

// polarCoefficients is one solved line of the polar output:
// alpha CL CD CDp CM Top_Xtr Bot_Xtr.
type polarCoefficients struct {
	Alpha  float64
	CL     float64
	CD     float64
	CDp    float64
	CM     float64
	TopXtr float64
	BotXtr float64
}

func parsePolarFile(path string) (polarCoefficients, bool) {
	f, err := os.Open(path)
	if err != nil {
		return polarCoefficients{}, false
	}
	defer f.Close()
	return parsePolar(f)
}

// parsePolar locates the first data row in the polar output, skipping
// the banner and column headers. Columns may be fixed-width or
// whitespace-delimited, with optional Fortran-style exponents.
func parsePolar(r io.Reader) (polarCoefficients, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 7 {
			continue
		}
		values := make([]float64, 0, 7)
		ok := true
		for _, field := range fields[:7] {
			v, err := parseFloat(field)
			if err != nil {
				ok = false
				break
			}
			values = append(values, v)
		}
		if !ok {
			continue
		}
		return polarCoefficients{
			Alpha:  values[0],
			CL:     values[1],
			CD:     values[2],
			CDp:    values[3],
			CM:     values[4],
			TopXtr: values[5],
			BotXtr: values[6],
		}, true
	}
	return polarCoefficients{}, false
}

func parseCpFile(path string) []domain.CpPoint {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return parseCp(f)
}

// parseCp reads the tabulated pressure block. Rows are "x y Cp" or
// "x Cp"; malformed rows are skipped rather than failing the block.
func parseCp(r io.Reader) []domain.CpPoint {
	var points []domain.CpPoint
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		x, err := parseFloat(fields[0])
		if err != nil {
			continue
		}
		cpField := fields[1]
		if len(fields) >= 3 {
			cpField = fields[2]
		}
		cp, err := parseFloat(cpField)
		if err != nil {
			continue
		}
		points = append(points, domain.CpPoint{X: x, Cp: cp})
	}
	return points
}

// parseFloat accepts plain, exponential, and Fortran D-exponent forms.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "Dd"); i > 0 {
		s = s[:i] + "e" + s[i+1:]
	}
	return strconv.ParseFloat(s, 64)
}
