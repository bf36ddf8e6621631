package persistx

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

var errNonPointerTarget = errors.New("target must be a non-nil pointer")

// Ensure JSONSerializer implements Serializer interface.
var _ Serializer = JSONSerializer{}

// JSONSerializer stores records as compact JSON. It is stateless.
// Strings holding invalid UTF-8 are saved with U+FFFD in place of the bad
// bytes, so they do not round-trip exactly.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", NewUnsupportedValueError(fmt.Sprintf("%T", v), err)
	}
	return string(b), nil
}

func (JSONSerializer) Deserialize(data string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return NewUnsupportedValueError(fmt.Sprintf("%T", target), errNonPointerTarget)
	}
	if err := json.Unmarshal([]byte(data), target); err != nil {
		return NewFormatError(rv.Elem().Type().String(), err)
	}
	return nil
}
