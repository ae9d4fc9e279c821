package finance

import "github.com/shopspring/decimal"

// Ratio is a metric that is undefined for some perfectly valid deals:
// DSCR on an all-cash purchase, cash-on-cash at zero cash invested, IRR
// when the cash-flow vector has no sign change. Consumers must check
// Defined before reading the value; an undefined ratio marshals as JSON
// null, never as zero.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// Defined wraps a computed ratio value.
func Defined(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// NotApplicable is the explicit "this ratio does not exist for this deal"
// sentinel.
func NotApplicable() Ratio {
	return Ratio{}
}

// IsDefined reports whether the ratio carries a value.
func (r Ratio) IsDefined() bool {
	return r.defined
}

// Value returns the underlying value and whether it is defined.
func (r Ratio) Value() (decimal.Decimal, bool) {
	return r.value, r.defined
}

// MustValue returns the value, or zero when undefined. Use only where a
// zero default is genuinely wanted (formatting, logging).
func (r Ratio) MustValue() decimal.Decimal {
	return r.value
}

func (r Ratio) String() string {
	if !r.defined {
		return "n/a"
	}
	return r.value.String()
}

// MarshalJSON emits null for an undefined ratio.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return r.value.MarshalJSON()
}

// UnmarshalJSON accepts null (undefined) or a decimal value.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Ratio{value: v, defined: true}
	return nil
}
