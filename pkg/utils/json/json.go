// Package json wraps the sonic JSON implementation behind the familiar
// encoding/json surface so call sites never depend on the codec directly.
package json

import (
	"github.com/bytedance/sonic"
)

func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return sonic.Unmarshal(data, v)
}

func MarshalString(v interface{}) (string, error) {
	return sonic.MarshalString(v)
}

func UnmarshalString(data string, v interface{}) error {
	return sonic.UnmarshalString(data, v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}
