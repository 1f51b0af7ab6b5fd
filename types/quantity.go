package types

import (
	"fmt"
	"math"
	"strings"
)

// Unit identifies which dimension a Quantity is expressed in
type Unit string

const (
	// UnitMass is an amount in grams
	UnitMass Unit = "mass"
	// UnitVolume is an amount in cm^3 (mL)
	UnitVolume Unit = "volume"
	// UnitServing is an amount in servings
	UnitServing Unit = "serving"
)

// Units lists every supported unit in display order
var Units = []Unit{UnitMass, UnitVolume, UnitServing}

// ParseUnit resolves a unit from its name or a common abbreviation,
// ignoring case and surrounding space
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mass", "g", "gram", "grams":
		return UnitMass, nil
	case "volume", "ml", "cm3":
		return UnitVolume, nil
	case "serving", "servings", "srv":
		return UnitServing, nil
	default:
		return "", fmt.Errorf("unknown unit '%s'", s)
	}
}

// Symbol is the short suffix used when printing amounts of this unit
func (u Unit) Symbol() string {
	switch u {
	case UnitMass:
		return "g"
	case UnitVolume:
		return "mL"
	case UnitServing:
		return "srv"
	default:
		return string(u)
	}
}

// Quantity is an amount of a food in exactly one unit.
// There is a single amount field, so a value never carries
// a stale amount for a unit other than its own.
type Quantity struct {
	Unit   Unit    `json:"unit" bson:"unit"`
	Amount float64 `json:"amount" bson:"amount"`
}

// Mass creates a quantity in grams
func Mass(grams float64) Quantity {
	return Quantity{Unit: UnitMass, Amount: grams}
}

// Volume creates a quantity in cm^3 (mL)
func Volume(milliliters float64) Quantity {
	return Quantity{Unit: UnitVolume, Amount: milliliters}
}

// Serving creates a quantity in servings
func Serving(servings float64) Quantity {
	return Quantity{Unit: UnitServing, Amount: servings}
}

// Validate ensures the unit is known and the amount is a finite,
// non-negative number
func (q Quantity) Validate() error {
	switch q.Unit {
	case UnitMass, UnitVolume, UnitServing:
	default:
		return fmt.Errorf("unknown unit '%s'", q.Unit)
	}

	if math.IsNaN(q.Amount) || math.IsInf(q.Amount, 0) || q.Amount < 0 {
		return fmt.Errorf("amount %v is not a non-negative number", q.Amount)
	}

	return nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Amount, q.Unit.Symbol())
}
