package config

import (
	"errors"
	"fmt"

	"github.com/udisondev/lotroev/internal/valuation"
)

// Valuation holds the tunable constants of the EV model.
type Valuation struct {
	ReferenceLevel          int     `yaml:"reference_level"`
	SupplementalLevel       int     `yaml:"supplemental_level"`
	SupplementalName        string  `yaml:"supplemental_name"`
	VitalityName            string  `yaml:"vitality_name"`
	PhysicalMitigationRatio float64 `yaml:"physical_mitigation_ratio"`
	TacticalMitigationRatio float64 `yaml:"tactical_mitigation_ratio"`
	FlatSocketValue         float64 `yaml:"flat_socket_value"`
}

// DefaultValuation returns the standard EV constants.
func DefaultValuation() Valuation {
	p := valuation.DefaultPolicy()
	return Valuation{
		ReferenceLevel:          p.ReferenceLevel,
		SupplementalLevel:       p.SupplementalLevel,
		SupplementalName:        p.SupplementalName,
		VitalityName:            p.VitalityName,
		PhysicalMitigationRatio: p.PhysicalMitigationRatio,
		TacticalMitigationRatio: p.TacticalMitigationRatio,
		FlatSocketValue:         p.FlatSocketValue,
	}
}

// Policy converts the section into a valuation policy. Stat names keep
// their defaults.
func (v Valuation) Policy() valuation.Policy {
	p := valuation.DefaultPolicy()
	p.ReferenceLevel = v.ReferenceLevel
	p.SupplementalLevel = v.SupplementalLevel
	p.SupplementalName = v.SupplementalName
	p.VitalityName = v.VitalityName
	p.PhysicalMitigationRatio = v.PhysicalMitigationRatio
	p.TacticalMitigationRatio = v.TacticalMitigationRatio
	p.FlatSocketValue = v.FlatSocketValue
	return p
}

func (v Valuation) validate() error {
	var errs []error
	if v.ReferenceLevel <= 0 {
		errs = append(errs, fmt.Errorf("valuation.reference_level must be positive, got %d", v.ReferenceLevel))
	}
	if v.SupplementalLevel <= 0 {
		errs = append(errs, fmt.Errorf("valuation.supplemental_level must be positive, got %d", v.SupplementalLevel))
	}
	if v.SupplementalName == "" {
		errs = append(errs, errors.New("valuation.supplemental_name is empty"))
	}
	if v.VitalityName == "" {
		errs = append(errs, errors.New("valuation.vitality_name is empty"))
	}
	if v.PhysicalMitigationRatio < 0 {
		errs = append(errs, fmt.Errorf("valuation.physical_mitigation_ratio must not be negative, got %g", v.PhysicalMitigationRatio))
	}
	if v.TacticalMitigationRatio < 0 {
		errs = append(errs, fmt.Errorf("valuation.tactical_mitigation_ratio must not be negative, got %g", v.TacticalMitigationRatio))
	}
	if v.FlatSocketValue < 0 {
		errs = append(errs, fmt.Errorf("valuation.flat_socket_value must not be negative, got %g", v.FlatSocketValue))
	}
	return errors.Join(errs...)
}
