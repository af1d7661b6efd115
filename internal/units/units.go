// Package units converts between the host's internal units (decimal feet and
// square feet) and the metric units used in specification output.
package units

const (
	millimetersPerFoot    = 304.8
	metersPerFoot         = 0.3048
	squareMetersPerSqFoot = 0.09290304
)

// ToMillimeters converts an internal length to millimeters.
func ToMillimeters(feet float64) float64 { return feet * millimetersPerFoot }

// FromMillimeters converts millimeters to an internal length.
func FromMillimeters(mm float64) float64 { return mm / millimetersPerFoot }

// ToMeters converts an internal length to meters.
func ToMeters(feet float64) float64 { return feet * metersPerFoot }

// FromMeters converts meters to an internal length.
func FromMeters(m float64) float64 { return m / metersPerFoot }

// ToSquareMeters converts an internal area to square meters.
func ToSquareMeters(sqFeet float64) float64 { return sqFeet * squareMetersPerSqFoot }

// FromSquareMeters converts square meters to an internal area.
func FromSquareMeters(m2 float64) float64 { return m2 / squareMetersPerSqFoot }
