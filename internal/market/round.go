package market

import (
	"math"
	"strconv"
	"strings"
)

// FloorDecimals floors x to the given number of decimal places. Quantities
// are never rounded up: rounding up could commit more than the balance
// acquired by the previous leg.
func FloorDecimals(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Floor(x*pow) / pow
}

// FloorToLot floors qty to the decimal precision of the pair's lot size,
// e.g. lotSize 0.001 floors 1.23456 to 1.234.
func FloorToLot(lotSize, qty float64) float64 {
	return FloorDecimals(qty, lotDecimals(lotSize))
}

func lotDecimals(lotSize float64) int {
	s := strconv.FormatFloat(lotSize, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
