// Package currency formats amounts in the single unit of account used by
// every record of the application.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultUnit is used when no unit is configured.
const DefaultUnit = "FCFA"

// Formatter renders amounts with French grouping followed by the unit.
// Cents are shown only when the amount has a fractional part.
type Formatter struct {
	Unit    string
	printer *message.Printer
}

// New returns a Formatter for unit.
func New(unit string) *Formatter {
	if strings.TrimSpace(unit) == "" {
		unit = DefaultUnit
	}
	return &Formatter{Unit: unit, printer: message.NewPrinter(language.French)}
}

// spaces used by CLDR French grouping are not encodable in the PDF core fonts
var spaceFixer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// Number formats amount without the unit.
func (f *Formatter) Number(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	var s string
	if amount == math.Trunc(amount) {
		s = f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
	} else {
		s = f.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	return spaceFixer.Replace(s)
}

// Format renders amount followed by the unit, e.g. "1 250 000 FCFA".
func (f *Formatter) Format(amount float64) string {
	return f.Number(amount) + " " + f.Unit
}
