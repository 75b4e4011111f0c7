package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Treatment is the visual treatment a renderer applies to an amount.
type Treatment int

const (
	// OwedToUser marks amounts >= 0: the person owes the user (or nothing).
	OwedToUser Treatment = iota
	// OwedByUser marks amounts < 0: the user owes the person.
	OwedByUser
)

func (t Treatment) String() string {
	switch t {
	case OwedToUser:
		return "owed_to_user"
	case OwedByUser:
		return "owed_by_user"
	default:
		return "unknown"
	}
}

// TreatmentFor classifies an amount. Zero counts as non-negative.
func TreatmentFor(amount int64) Treatment {
	if amount < 0 {
		return OwedByUser
	}
	return OwedToUser
}

// Formatted is a display-ready amount.
type Formatted struct {
	Text      string
	Treatment Treatment
}

// Formatter renders cent amounts as locale-formatted strings with two
// fraction digits. It is stateless apart from the locale and safe for
// concurrent use.
type Formatter struct {
	printer *message.Printer
	point   string
}

// NewFormatter creates a Formatter for the given locale.
func NewFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	return &Formatter{printer: p, point: decimalPoint(p)}
}

// Format renders amount (in cents) in major units, e.g. 123456 -> "1,234.56"
// for English. The conversion is exact over the whole int64 range.
func (f *Formatter) Format(amount int64) Formatted {
	major := decimal.New(amount, -2).Abs()
	fixed := major.StringFixed(2)

	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
	}
	b.WriteString(f.printer.Sprintf("%v", number.Decimal(major.Truncate(0).IntPart())))
	b.WriteString(f.point)
	b.WriteString(fixed[len(fixed)-2:])

	return Formatted{
		Text:      b.String(),
		Treatment: TreatmentFor(amount),
	}
}

// decimalPoint extracts the locale's decimal separator from a sample.
func decimalPoint(p *message.Printer) string {
	sample := p.Sprintf("%v", number.Decimal(1.5, number.Scale(1)))
	sep := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
	if sep == "" || sep == sample {
		return "."
	}
	return sep
}

// String is Format without the treatment.
func (f *Formatter) String(amount int64) string {
	return f.Format(amount).Text
}
