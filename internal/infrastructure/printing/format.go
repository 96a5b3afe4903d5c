package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// formatter holds locale-bound helpers exposed to templates
type formatter struct {
	printer *message.Printer
	title   cases.Caser
}

func newFormatter(tag language.Tag) *formatter {
	return &formatter{
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

func (f *formatter) funcMap() template.FuncMap {
	return template.FuncMap{
		"money":  f.money,
		"qty":    f.quantity,
		"date":   formatDate,
		"status": f.status,
		"upper":  strings.ToUpper,
	}
}

// money renders an amount as dollars with grouping, e.g. "$1,234.50" or "-$5.00"
func (f *formatter) money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	amount := d.Round(2).InexactFloat64()
	return sign + "$" + f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

// quantity drops trailing zeros: 12.500 renders as "12.5", 3.000 as "3"
func (f *formatter) quantity(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

// status turns PARTIALLY_PAID into "Partially Paid"
func (f *formatter) status(s string) string {
	return f.title.String(strings.ReplaceAll(s, "_", " "))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006")
}
