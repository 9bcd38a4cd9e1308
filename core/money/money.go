// Package money holds prices as integer centavos and formats them for the
// Philippine market. Arithmetic on integers keeps cart totals exact.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Centavos is an amount of Philippine pesos expressed in centavos.
type Centavos int64

// Mul returns the amount multiplied by a quantity.
func (c Centavos) Mul(qty int) Centavos {
	return c * Centavos(qty)
}

// Pesos returns the whole-peso part and the centavo remainder.
func (c Centavos) Pesos() (int64, int64) {
	return int64(c) / 100, int64(c) % 100
}

// String renders the amount as displayed everywhere in the UI: a peso sign,
// thousands separators and two decimals, e.g. "₱1,234.56".
func (c Centavos) String() string {
	neg := c < 0
	if neg {
		c = -c
	}

	pesos, cents := c.Pesos()

	digits := strconv.FormatInt(pesos, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₱%s.%02d", sign, b.String(), cents)
}
