package xfoil

import (
	"fmt"
	"strings"

	"github.com/CS101-o/CFD-leetcode/internal/domain"
)

// commandScript builds the fixed-order session fed to the solver's
// stdin: load geometry, re-panel, configure the boundary layer, set the
// angle, write pressure and polar output, quit. The output parser
// relies on this ordering.
func commandScript(cfg Config, flow domain.FlowConditions) string {
	commands := []string{
		"LOAD " + coordsFile,
		"", // accept the name from the coordinate file
		"PANE",
		"OPER",
	}

	if flow.Viscous {
		commands = append(commands,
			fmt.Sprintf("VISC %g", flow.Reynolds),
			fmt.Sprintf("MACH %g", flow.Mach),
			"VPAR",
			fmt.Sprintf("N %g", cfg.NCrit),
			"", // leave the VPAR submenu
			fmt.Sprintf("ITER %d", cfg.MaxIter),
		)
	} else if flow.Mach > 0 {
		commands = append(commands, fmt.Sprintf("MACH %g", flow.Mach))
	}

	commands = append(commands,
		fmt.Sprintf("ALFA %g", flow.AlphaDeg),
		"CPWR "+cpFile,
		"PWRT",
		polarFile,
		"", // confirm overwrite
		"QUIT",
	)

	return strings.Join(commands, "\n") + "\n"
}
