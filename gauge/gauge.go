package gauge

import "math"

// Default dial endpoints, in kW. The dial spans from full export (-ReturnMax, -90
// degrees) to full consumption (+ConsumptionMax, +90 degrees).
const (
	DefaultReturnMax      = 6.0
	DefaultConsumptionMax = 18.0
)

// Calibration holds the dial endpoints for a particular installation.
type Calibration struct {
	ReturnMax      float64
	ConsumptionMax float64
}

// DefaultCalibration returns the dial endpoints used when none are configured.
func DefaultCalibration() Calibration {
	return Calibration{
		ReturnMax:      DefaultReturnMax,
		ConsumptionMax: DefaultConsumptionMax,
	}
}

// Sign indicates the direction of the net power flow.
type Sign int

const (
	Import Sign = iota // net consumption from the grid
	Export             // net production to the grid
)

func (s Sign) String() string {
	if s == Export {
		return "export"
	}
	return "import"
}

// State is the display representation of one net power value. It is recomputed in full
// on every call to Map and carries no identity.
type State struct {
	Angle float64 // degrees; -90 at -ReturnMax, +90 at +ConsumptionMax
	Sign  Sign
	Text  string // formatted magnitude with unit, e.g. "10.0 kW"
}

// Map converts an instantaneous net power (kW, positive for import) into a gauge state.
//
// Power values outside [-ReturnMax, ConsumptionMax] map to angles outside [-90, 90];
// clamping, if wanted, is the renderer's job.
func Map(power float64, cal Calibration) State {
	angle := -90 + ((power+cal.ReturnMax)/(cal.ReturnMax+cal.ConsumptionMax))*180

	sign := Import
	if power < 0 {
		sign = Export
	}

	magnitude := math.Abs(power)
	width := 3
	if roundHalfAway(magnitude, 1) >= 10 {
		width = 4
	}

	return State{
		Angle: angle,
		Sign:  sign,
		Text:  FormatFixed(magnitude, 1, width) + " kW",
	}
}
