package yootles

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and rates are JSON numbers, as the web front end reads them.
	decimal.MarshalJSONWithoutQuotes = true
}

// jsonObject writes a JSON object with its fields in call order. Its zero
// value is an empty object. The first failure is kept and returned by
// MarshalJSON.
type jsonObject struct {
	buf bytes.Buffer
	err error
}

// key starts a new field.
func (o *jsonObject) key(k string) {
	if o.buf.Len() > 0 {
		o.buf.WriteByte(',')
	}
	b, _ := json.Marshal(k)
	o.buf.Write(b)
	o.buf.WriteByte(':')
}

// Field writes v marshaled with json.Marshal.
func (o *jsonObject) Field(k string, v any) *jsonObject {
	if o.err != nil {
		return o
	}
	b, err := json.Marshal(v)
	if err != nil {
		o.err = fmt.Errorf("failed to marshal field %q: %w", k, err)
		return o
	}
	o.key(k)
	o.buf.Write(b)
	return o
}

// Money writes an amount of money as a number with exactly two decimals.
func (o *jsonObject) Money(k string, d decimal.Decimal) *jsonObject {
	if o.err != nil {
		return o
	}
	o.key(k)
	o.buf.WriteString(d.StringFixed(2))
	return o
}

// Text writes s, or nothing if s is empty and omitEmpty.
func (o *jsonObject) Text(k, s string, omitEmpty bool) *jsonObject {
	if omitEmpty && s == "" {
		return o
	}
	return o.Field(k, s)
}

// listField writes a JSON array, or nothing if list is empty and omitEmpty. A nil
// list is written as [] otherwise.
func listField[T any](o *jsonObject, k string, list []T, omitEmpty bool) *jsonObject {
	if len(list) == 0 {
		if omitEmpty {
			return o
		}
		list = []T{}
	}
	return o.Field(k, list)
}

// MarshalJSON returns the object, or the first failure.
func (o *jsonObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	b := make([]byte, 0, o.buf.Len()+2)
	b = append(b, '{')
	b = append(b, o.buf.Bytes()...)
	return append(b, '}'), nil
}
