package enums

import "fmt"

// ProductClassification is the menu section used by the student client to filter products.
type ProductClassification string

const (
	ProductClassificationFastFood  ProductClassification = "COMIDA_RAPIDA"
	ProductClassificationLunch     ProductClassification = "ALMUERZO"
	ProductClassificationBreakfast ProductClassification = "DESAYUNO"
	ProductClassificationSnack     ProductClassification = "SNACK"
	ProductClassificationDrink     ProductClassification = "BEBIDA"
	ProductClassificationDessert   ProductClassification = "POSTRE"
	ProductClassificationHealthy   ProductClassification = "SALUDABLE"
)

var validProductClassifications = []ProductClassification{
	ProductClassificationFastFood,
	ProductClassificationLunch,
	ProductClassificationBreakfast,
	ProductClassificationSnack,
	ProductClassificationDrink,
	ProductClassificationDessert,
	ProductClassificationHealthy,
}

// String implements fmt.Stringer.
func (v ProductClassification) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ProductClassification.
func (v ProductClassification) IsValid() bool {
	for _, candidate := range validProductClassifications {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductClassification converts raw input into a ProductClassification.
func ParseProductClassification(value string) (ProductClassification, error) {
	for _, candidate := range validProductClassifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product classification %q", value)
}
