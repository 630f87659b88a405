package enums

import "fmt"

// CostingMethod selects how a purchasable item's unit cost is derived
// from its purchase history.
type CostingMethod string

const (
	CostingMethodLatest          CostingMethod = "latest"
	CostingMethodWeightedAverage CostingMethod = "weighted_average"
)

var validCostingMethods = []CostingMethod{
	CostingMethodLatest,
	CostingMethodWeightedAverage,
}

// String implements fmt.Stringer.
func (c CostingMethod) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CostingMethod.
func (c CostingMethod) IsValid() bool {
	for _, candidate := range validCostingMethods {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCostingMethod converts raw input into a CostingMethod.
func ParseCostingMethod(value string) (CostingMethod, error) {
	for _, candidate := range validCostingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid costing method %q", value)
}
