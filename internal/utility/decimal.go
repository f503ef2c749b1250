package utility

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decimal is the money type. It is stored as BSON Decimal128 and written to JSON as a
// decimal string; JSON input may be a number or a string.
type Decimal struct {
	decimal.Decimal
}

// ZeroDecimal is 0.
var ZeroDecimal = Decimal{decimal.Zero}

// DecimalFromString parses s. An empty string is zero.
func DecimalFromString(s string) (Decimal, error) {
	if s == "" {
		return ZeroDecimal, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroDecimal, err
	}
	return Decimal{d}, nil
}

// MustDecimal is DecimalFromString that panics; for constants and tests.
func MustDecimal(s string) Decimal {
	d, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFromInt converts i.
func DecimalFromInt(i int64) Decimal {
	return Decimal{decimal.NewFromInt(i)}
}

func (d Decimal) Add(o Decimal) Decimal { return Decimal{d.Decimal.Add(o.Decimal)} }
func (d Decimal) Sub(o Decimal) Decimal { return Decimal{d.Decimal.Sub(o.Decimal)} }
func (d Decimal) Mul(o Decimal) Decimal { return Decimal{d.Decimal.Mul(o.Decimal)} }
func (d Decimal) Neg() Decimal          { return Decimal{d.Decimal.Neg()} }
func (d Decimal) Equal(o Decimal) bool  { return d.Decimal.Equal(o.Decimal) }
func (d Decimal) Cmp(o Decimal) int     { return d.Decimal.Cmp(o.Decimal) }

// Div divides with 16 digits of precision. Division by zero returns zero.
func (d Decimal) Div(o Decimal) Decimal {
	if o.Decimal.IsZero() {
		return ZeroDecimal
	}
	return Decimal{d.Decimal.DivRound(o.Decimal, 16)}
}

// Round rounds half away from zero to places digits.
func (d Decimal) Round(places int32) Decimal {
	return Decimal{d.Decimal.Round(places)}
}

// FirstDecimal returns the first non-nil value, or zero.
func FirstDecimal(values ...*Decimal) Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ZeroDecimal
}

// MarshalJSON writes the value as a quoted decimal string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Decimal.String() + `"`), nil
}

// UnmarshalJSON accepts 12.5, "12.5" and null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	if string(data) == `""` {
		d.Decimal = decimal.Zero
		return nil
	}
	return d.Decimal.UnmarshalJSON(data)
}

// MarshalBSONValue stores the value as Decimal128.
func (d Decimal) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec, err := primitive.ParseDecimal128(d.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("decimal %s does not fit Decimal128: %w", d.Decimal.String(), err)
	}
	return bson.MarshalValue(dec)
}

// UnmarshalBSONValue reads Decimal128 and, for older documents, numeric or string values.
func (d *Decimal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		parsed, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return err
		}
		d.Decimal = parsed
	case bsontype.Double:
		d.Decimal = decimal.NewFromFloat(rv.Double())
	case bsontype.Int32:
		d.Decimal = decimal.NewFromInt(int64(rv.Int32()))
	case bsontype.Int64:
		d.Decimal = decimal.NewFromInt(rv.Int64())
	case bsontype.String:
		parsed, err := DecimalFromString(rv.StringValue())
		if err != nil {
			return err
		}
		*d = parsed
	case bsontype.Null, bsontype.Undefined:
		d.Decimal = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %s into Decimal", t)
	}
	return nil
}
