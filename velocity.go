package exovel

import (
	"fmt"
	"math"
	"strings"
)

// Physical constants in SI units. The mass and radius reference values follow
// the archive's definitions of Earth and Jupiter units.
const (
	GravitationalConstant = 6.674e-11

	EarthMassKg    = 5.97219e24
	EarthRadiusM   = 6.371e6
	JupiterMassKg  = 1.89813e27
	JupiterRadiusM = 6.9911e7
)

// UnitSystem identifies the units the archive reported mass and radius in.
type UnitSystem int

const (
	// UnitEarth: mass in Earth masses, radius in Earth radii (pl_bmasse, pl_rade).
	UnitEarth UnitSystem = iota
	// UnitJupiter: mass in Jupiter masses, radius in Jupiter radii (pl_bmassj, pl_radj).
	UnitJupiter
	// UnitSI: mass in kilograms, radius in meters, no conversion applied.
	UnitSI
)

func (u UnitSystem) String() string {
	switch u {
	case UnitEarth:
		return "earth"
	case UnitJupiter:
		return "jupiter"
	case UnitSI:
		return "si"
	default:
		return fmt.Sprintf("UnitSystem(%d)", int(u))
	}
}

// ParseUnitSystem parses "earth", "jupiter", or "si", case-insensitively.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(s) {
	case "earth":
		return UnitEarth, nil
	case "jupiter":
		return UnitJupiter, nil
	case "si":
		return UnitSI, nil
	default:
		return 0, &ConfigurationError{Field: "units", Detail: fmt.Sprintf("unknown unit system %q, want earth, jupiter or si", s)}
	}
}

// Planet is one planet's mass and radius measurement, expressed in the units
// of a UnitSystem. Nil mass or radius means the archive has no value.
type Planet struct {
	Name   string
	Mass   *float64
	Radius *float64
}

// EarthUnitsRow maps the archive's Earth-unit mass and radius columns.
type EarthUnitsRow struct {
	Name   string   `exovel:"pl_name"`
	Radius *float64 `exovel:"pl_rade"`
	Mass   *float64 `exovel:"pl_bmasse"`
}

// Planet returns the row as calculator input.
func (r EarthUnitsRow) Planet() Planet {
	return Planet{Name: r.Name, Mass: r.Mass, Radius: r.Radius}
}

// JupiterUnitsRow maps the archive's Jupiter-unit mass and radius columns.
type JupiterUnitsRow struct {
	Name   string   `exovel:"pl_name"`
	Radius *float64 `exovel:"pl_radj"`
	Mass   *float64 `exovel:"pl_bmassj"`
}

// Planet returns the row as calculator input.
func (r JupiterUnitsRow) Planet() Planet {
	return Planet{Name: r.Name, Mass: r.Mass, Radius: r.Radius}
}

// Record is one planet's computed escape velocity. Velocity is in m/s.
// Invalid records carry a Reason and a zero velocity.
type Record struct {
	Name       string
	MassKg     float64
	RadiusM    float64
	VelocityMS float64
	Valid      bool
	Reason     string
}

// EscapeVelocity computes sqrt(2*G*M/R) in m/s for a mass in kilograms and a
// radius in meters. Inputs must be positive; the caller validates.
func EscapeVelocity(massKg, radiusM float64) float64 {
	return math.Sqrt(2 * GravitationalConstant * massKg / radiusM)
}

// ComputeRecords computes one Record per planet, converting mass and radius
// from the given unit system to SI first. Rows with missing or unusable
// values are flagged invalid and never abort the batch: partial datasets are
// the norm for the archive.
func ComputeRecords(planets []Planet, units UnitSystem) []Record {
	records := make([]Record, 0, len(planets))
	for _, p := range planets {
		records = append(records, computeRecord(p, units))
	}
	return records
}

func computeRecord(p Planet, units UnitSystem) Record {
	if reason := validatePlanet(p); reason != "" {
		LogDebugf("skipping row: %v", &DataValidationError{Planet: p.Name, Reason: reason})
		return Record{Name: p.Name, Reason: reason}
	}

	massKg := *p.Mass
	radiusM := *p.Radius
	switch units {
	case UnitEarth:
		massKg *= EarthMassKg
		radiusM *= EarthRadiusM
	case UnitJupiter:
		massKg *= JupiterMassKg
		radiusM *= JupiterRadiusM
	}

	return Record{
		Name:       p.Name,
		MassKg:     massKg,
		RadiusM:    radiusM,
		VelocityMS: EscapeVelocity(massKg, radiusM),
		Valid:      true,
	}
}

func validatePlanet(p Planet) string {
	switch {
	case p.Mass == nil:
		return "missing mass"
	case p.Radius == nil:
		return "missing radius"
	case math.IsNaN(*p.Mass) || math.IsInf(*p.Mass, 0):
		return "non-numeric mass"
	case math.IsNaN(*p.Radius) || math.IsInf(*p.Radius, 0):
		return "non-numeric radius"
	case *p.Mass <= 0:
		return fmt.Sprintf("non-positive mass %g", *p.Mass)
	case *p.Radius <= 0:
		return fmt.Sprintf("non-positive radius %g", *p.Radius)
	default:
		return ""
	}
}
