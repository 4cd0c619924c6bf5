// Package units converts WordprocessingML's native length units to points.
//
// DOCX measures most block geometry in twips (1/20 pt), drawings in EMU
// (1/914400 in), and font sizes in half-points. Everything downstream of
// parsing works in points (float64) so the layout and PDF stages never have
// to think about unit provenance.
package units

const (
	// PerInch is the number of points in one inch.
	PerInch = 72.0

	twipsPerPoint     = 20.0
	emuPerInch        = 914400.0
	emuPerPoint       = emuPerInch / PerInch
	halfPointsPerUnit = 2.0
)

// Twips converts twentieths-of-a-point to points.
func Twips(v int) float64 { return float64(v) / twipsPerPoint }

// TwipsF converts a fractional twips value to points.
func TwipsF(v float64) float64 { return v / twipsPerPoint }

// ToTwips converts points back to twips, rounding to the nearest integer.
// No code outside this package's tests calls it.
func ToTwips(pt float64) int { return int(pt*twipsPerPoint + 0.5) }

// EMU converts English Metric Units to points.
func EMU(v int64) float64 { return float64(v) / emuPerPoint }

// ToEMU converts points to EMU.
func ToEMU(pt float64) int64 { return int64(pt*emuPerPoint + 0.5) }

// HalfPoints converts half-points (font size unit) to points.
func HalfPoints(v int) float64 { return float64(v) / halfPointsPerUnit }
