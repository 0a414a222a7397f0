package xfoil

import (
	"strings"
	"testing"
)

const samplePolar = `
       XFOIL         Version 6.99

 Calculated polar for: NACA 0012

 1 1 Reynolds number fixed          Mach number fixed

 xtrf =   1.000 (top)        1.000 (bottom)
 Mach =   0.000     Re =     1.000 e 6     Ncrit =   9.000

  alpha    CL        CD       CDp       CM     Top_Xtr  Bot_Xtr
  ------ -------- --------- --------- -------- -------- --------
   5.000   0.5470   0.00820   0.00310  -0.0520   0.7410   1.0000
`

func TestParsePolar(t *testing.T) {
	coeffs, ok := parsePolar(strings.NewReader(samplePolar))
	if !ok {
		t.Fatalf("parsePolar() failed to locate data row")
	}
	if coeffs.Alpha != 5.0 {
		t.Fatalf("Alpha=%g, want 5.0", coeffs.Alpha)
	}
	if coeffs.CL != 0.5470 {
		t.Fatalf("CL=%g, want 0.5470", coeffs.CL)
	}
	if coeffs.CD != 0.0082 {
		t.Fatalf("CD=%g, want 0.0082", coeffs.CD)
	}
	if coeffs.CM != -0.052 {
		t.Fatalf("CM=%g, want -0.052", coeffs.CM)
	}
}

func TestParsePolar_ExponentialNotation(t *testing.T) {
	line := "  5.000  5.47E-01  8.2e-03  3.1D-03 -5.20d-02  0.741  1.0\n"
	coeffs, ok := parsePolar(strings.NewReader(line))
	if !ok {
		t.Fatalf("parsePolar() failed on exponential row")
	}
	if coeffs.CL != 0.547 {
		t.Fatalf("CL=%g, want 0.547", coeffs.CL)
	}
	if coeffs.CDp != 0.0031 {
		t.Fatalf("CDp=%g, want 0.0031", coeffs.CDp)
	}
	if coeffs.CM != -0.052 {
		t.Fatalf("CM=%g, want -0.052", coeffs.CM)
	}
}

func TestParsePolar_NoDataRow(t *testing.T) {
	if _, ok := parsePolar(strings.NewReader("  alpha CL CD CDp CM Top Bot\n ---- ---- ----\n")); ok {
		t.Fatalf("parsePolar() found a row in header-only output")
	}
}

func TestParseCp(t *testing.T) {
	input := `#    x        y        Cp
  1.00000  0.00126  0.23910
  0.95000  0.00800  0.18000
  garbage row here
  0.90000  0.01300
  0.85000  0.01700  0.11000
`
	points := parseCp(strings.NewReader(input))
	if len(points) != 4 {
		t.Fatalf("parseCp() returned %d rows, want 4", len(points))
	}
	if points[0].X != 1.0 || points[0].Cp != 0.2391 {
		t.Fatalf("first row = %+v", points[0])
	}
	// Two-column rows use the second field as Cp.
	if points[2].X != 0.9 || points[2].Cp != 0.013 {
		t.Fatalf("two-column row = %+v", points[2])
	}
}

func TestParseCp_Empty(t *testing.T) {
	if points := parseCp(strings.NewReader("# header only\n")); len(points) != 0 {
		t.Fatalf("parseCp() = %d rows, want 0", len(points))
	}
}
