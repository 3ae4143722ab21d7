package domain

import (
	"fmt"
	"math"
	"unicode/utf16"
)

const (
	techFactorStep    = 0.05
	descriptionScale  = 1000.0
	maxDescriptionAdj = 0.3
)

// EstimateFactors explains how a suggested price was derived.
type EstimateFactors struct {
	BasePrice         float64 `json:"basePrice"`
	TechFactor        float64 `json:"techFactor"`
	DescriptionFactor float64 `json:"descriptionFactor"`
}

// Estimate is the result of EstimatePrice.
type Estimate struct {
	SuggestedPrice float64         `json:"suggestedPrice"`
	Factors        EstimateFactors `json:"factors"`
}

// Validate checks that the range is usable for pricing.
func (b BudgetRange) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min < 0 || b.Min > b.Max {
		return fmt.Errorf("%w: budget range must satisfy 0 <= min <= max", ErrInvalidInput)
	}
	return nil
}

// EstimatePrice suggests a price for a task from its budget window, the size of
// its tech stack and the length of its description. The result always lies in
// [budget.Min, budget.Max].
//
// Description length is measured in UTF-16 code units. Every intermediate
// product is converted explicitly so the compiler cannot fuse it into an FMA,
// which would change results at the rounding boundary.
func EstimatePrice(description string, budget BudgetRange, techStackSize int) (Estimate, error) {
	if err := budget.Validate(); err != nil {
		return Estimate{}, err
	}

	base := (budget.Min + budget.Max) / 2
	techFactor := 1 + float64(float64(techStackSize)*techFactorStep)
	descFactor := 1 + math.Min(float64(utf16Len(description))/descriptionScale, maxDescriptionAdj)

	raw := float64(float64(base*techFactor) * descFactor)
	suggested := math.Max(budget.Min, math.Min(RoundHalfUp(raw), budget.Max))

	return Estimate{
		SuggestedPrice: suggested,
		Factors: EstimateFactors{
			BasePrice:         base,
			TechFactor:        techFactor,
			DescriptionFactor: descFactor,
		},
	}, nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
