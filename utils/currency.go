package utils

import (
	"fmt"
	"math"
)

// FormatAmount renders a money value with exactly two decimals: 85 -> "85.00".
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", math.Round(amount*100)/100)
}
