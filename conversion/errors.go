package conversion

import (
	"fmt"

	"github.com/jd-116/fooddb/types"
)

// UnsupportedUnitError is an error used to encode when a food has no
// equivalence populated for the requested unit
type UnsupportedUnitError struct {
	FoodID types.FoodID
	Name   string
	Unit   types.Unit
}

// NewUnsupportedUnitError constructs a new UnsupportedUnitError
func NewUnsupportedUnitError(food types.Food, unit types.Unit) *UnsupportedUnitError {
	return &UnsupportedUnitError{
		FoodID: food.ID,
		Name:   food.Name,
		Unit:   unit,
	}
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("food '%s' (id %d) cannot be measured by %s: no %s equivalence is set",
		e.Name, e.FoodID, e.Unit, e.Unit)
}

// InvalidQuantityError is an error used to encode when a quantity
// has an unknown unit or an amount that is negative or not finite
type InvalidQuantityError struct {
	Quantity types.Quantity
	Reason   error
}

// NewInvalidQuantityError constructs a new InvalidQuantityError
func NewInvalidQuantityError(quantity types.Quantity, reason error) *InvalidQuantityError {
	return &InvalidQuantityError{
		Quantity: quantity,
		Reason:   reason,
	}
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: %s", e.Reason)
}

func (e *InvalidQuantityError) Unwrap() error {
	return e.Reason
}
