// Package bodytype classifies shape parameters into a body type and maps each type
// to garment style recommendations.
package bodytype

import (
	"math"

	"bodyfit-workers/internal/bodymodel/shape"
)

// Type is one of the five body silhouettes, or Unknown for records that predate classification.
type Type string

const (
	InvertedTriangle Type = "inverted_triangle"
	Pear             Type = "pear"
	Hourglass        Type = "hourglass"
	Rectangle        Type = "rectangle"
	Oval             Type = "oval"
	Unknown          Type = "unknown"
)

// All lists the classifiable types in cascade order.
var All = []Type{InvertedTriangle, Pear, Hourglass, Rectangle, Oval}

// Valid reports whether t is one of the classifiable types.
func (t Type) Valid() bool {
	for _, v := range All {
		if v == t {
			return true
		}
	}
	return false
}

type rule struct {
	matches func(shape.Parameters) bool
	result  Type
}

// rules are evaluated in order; the first match wins. Shapes that satisfy several
// predicates (e.g. wide shoulders and a narrow waist) resolve to the earliest entry.
var rules = []rule{
	{
		matches: func(p shape.Parameters) bool { return p.ShoulderWidthScale > p.HipWidthScale*1.1 },
		result:  InvertedTriangle,
	},
	{
		matches: func(p shape.Parameters) bool { return p.HipWidthScale > p.ShoulderWidthScale*1.1 },
		result:  Pear,
	},
	{
		matches: func(p shape.Parameters) bool {
			return p.WaistWidthScale < math.Min(p.ShoulderWidthScale, p.HipWidthScale)*0.8
		},
		result: Hourglass,
	},
	{
		matches: func(p shape.Parameters) bool {
			return math.Abs(p.ShoulderWidthScale-p.HipWidthScale) < 0.1 && p.WaistWidthScale > 0.9
		},
		result: Rectangle,
	},
}

// Classify runs the rule cascade and falls through to Oval.
func Classify(p shape.Parameters) Type {
	for _, r := range rules {
		if r.matches(p) {
			return r.result
		}
	}
	return Oval
}
