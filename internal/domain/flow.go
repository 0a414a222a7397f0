package domain

import (
	"errors"
	"fmt"
)

// FlowConditions describes the freestream a simulation runs at.
type FlowConditions struct {
	AlphaDeg float64 `json:"alpha_deg"`
	Reynolds float64 `json:"reynolds"`
	Mach     float64 `json:"mach"`
	Viscous  bool    `json:"viscous"`
}

func (f FlowConditions) Validate() error {
	if f.AlphaDeg < -30 || f.AlphaDeg > 30 {
		return fmt.Errorf("alpha_deg out of range [-30, 30]: %g", f.AlphaDeg)
	}
	if f.Viscous && f.Reynolds <= 0 {
		return errors.New("reynolds is required for viscous analysis")
	}
	if f.Reynolds < 0 {
		return fmt.Errorf("reynolds must be positive: %g", f.Reynolds)
	}
	if f.Mach < 0 || f.Mach >= 1 {
		return fmt.Errorf("mach out of range [0, 1): %g", f.Mach)
	}
	return nil
}
