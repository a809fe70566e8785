package repositories

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// StoredValue is a nested column as it comes back from storage: either the
// serialized JSON blob (Raw) or a value some driver or caller already decoded
// (Structured). It is resolved once, in decodeInto.
type StoredValue struct {
	raw        []byte
	structured any
}

func RawValue(b []byte) StoredValue {
	return StoredValue{raw: b}
}

func StructuredValue(v any) StoredValue {
	return StoredValue{structured: v}
}

func (v StoredValue) IsNull() bool {
	return v.raw == nil && v.structured == nil
}

func (v StoredValue) IsRaw() bool {
	return v.raw != nil
}

// Bytes returns the serialized form, marshalling structured values.
func (v StoredValue) Bytes() ([]byte, error) {
	switch {
	case v.raw != nil:
		return v.raw, nil
	case v.structured != nil:
		return json.Marshal(v.structured)
	}
	return nil, nil
}

func (v StoredValue) Value() (driver.Value, error) {
	b, err := v.Bytes()
	if err != nil || b == nil {
		return nil, err
	}
	return b, nil
}

func (v *StoredValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = StoredValue{}
	case []byte:
		*v = RawValue(append([]byte(nil), s...))
	case string:
		*v = RawValue([]byte(s))
	default:
		*v = StructuredValue(s)
	}
	return nil
}

// decodeInto fills dst (a pointer) from v. NULL leaves dst untouched.
func (v StoredValue) decodeInto(dst any) error {
	switch {
	case v.raw != nil:
		return json.Unmarshal(v.raw, dst)
	case v.structured != nil:
		return decodeStructured(v.structured, dst)
	}
	return nil
}

func decodeStructured(src, dst any) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}
	target = target.Elem()

	value := reflect.ValueOf(src)
	if value.Kind() == reflect.Pointer && !value.IsNil() {
		value = value.Elem()
	}
	if value.Type() == target.Type() {
		target.Set(value)
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}
