package valuation

// Reference constants of the Essence Value model. They are tuned by hand
// against in-game essences and are not derived from a formula.
const (
	// ReferenceLevel is the item level of Vivid essences, the basis for most stats.
	ReferenceLevel = 532
	// SupplementalLevel is the item level of Supplemental essences, the basis for
	// vitality and fate.
	SupplementalLevel = 508

	SupplementalName = "Supplemental"
	VitalityName     = "Vitality"

	StatVitality           = "VITALITY"
	StatFate               = "FATE"
	StatArmour             = "ARMOUR"
	StatPhysicalMitigation = "PHYSICAL_MITIGATION"
	StatTacticalMitigation = "TACTICAL_MITIGATION"

	PhysicalMitigationRatio = 1.0
	TacticalMitigationRatio = 0.2

	// FlatSocketValue is the EV of one basic, primary, cloak, necklace or pvp socket.
	FlatSocketValue = 1.0
)

// Policy holds the tunable constants of the EV model.
type Policy struct {
	ReferenceLevel    int
	SupplementalLevel int
	SupplementalName  string // name substring of supplemental essences
	VitalityName      string // name substring of the reference vitality essence

	// SupplementalStats are taken from supplemental essences instead of
	// reference essences.
	SupplementalStats []string
	VitalityStat      string

	ArmourStat              string
	PhysicalMitigationStat  string
	PhysicalMitigationRatio float64
	TacticalMitigationStat  string
	TacticalMitigationRatio float64

	FlatSocketValue float64
}

// DefaultPolicy returns the standard EV policy.
func DefaultPolicy() Policy {
	return Policy{
		ReferenceLevel:          ReferenceLevel,
		SupplementalLevel:       SupplementalLevel,
		SupplementalName:        SupplementalName,
		VitalityName:            VitalityName,
		SupplementalStats:       []string{StatVitality, StatFate},
		VitalityStat:            StatVitality,
		ArmourStat:              StatArmour,
		PhysicalMitigationStat:  StatPhysicalMitigation,
		PhysicalMitigationRatio: PhysicalMitigationRatio,
		TacticalMitigationStat:  StatTacticalMitigation,
		TacticalMitigationRatio: TacticalMitigationRatio,
		FlatSocketValue:         FlatSocketValue,
	}
}

func (p Policy) isSupplementalStat(name string) bool {
	for _, s := range p.SupplementalStats {
		if s == name {
			return true
		}
	}
	return false
}
