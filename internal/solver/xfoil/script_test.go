package xfoil

import (
	"strings"
	"testing"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

func testConfig() Config {
	return Config{Path: "xfoil", Timeout: 30e9, MaxIter: 100, NCrit: 9}
}

func TestCommandScript_Viscous(t *testing.T) {
	script := commandScript(testConfig(), domain.FlowConditions{
		AlphaDeg: 5, Reynolds: 1e6, Mach: 0.1, Viscous: true,
	})

	lines := strings.Split(strings.TrimRight(script, "\n"), "\n")
	want := []string{
		"LOAD airfoil.dat",
		"",
		"PANE",
		"OPER",
		"VISC 1e+06",
		"MACH 0.1",
		"VPAR",
		"N 9",
		"",
		"ITER 100",
		"ALFA 5",
		"CPWR cp.txt",
		"PWRT",
		"polar.txt",
		"",
		"QUIT",
	}
	if len(lines) != len(want) {
		t.Fatalf("script has %d lines, want %d:\n%s", len(lines), len(want), script)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}

func TestCommandScript_Inviscid(t *testing.T) {
	script := commandScript(testConfig(), domain.FlowConditions{AlphaDeg: 3})

	if strings.Contains(script, "VISC") {
		t.Fatalf("inviscid script must not enable viscous mode:\n%s", script)
	}
	if strings.Contains(script, "MACH") {
		t.Fatalf("inviscid incompressible script must not set Mach:\n%s", script)
	}
	if !strings.HasSuffix(script, "QUIT\n") {
		t.Fatalf("script must end with QUIT:\n%s", script)
	}
}
