package advisory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StringList decodes from a JSON array or a single string. Non-string array
// elements are kept in their compact JSON form. Blank entries are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if s := strings.TrimSpace(single); s != "" {
			*l = StringList{s}
		} else {
			*l = nil
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			s = string(bytes.TrimSpace(item))
		}
		if s = strings.TrimSpace(s); s != "" && s != "null" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// Joined renders the list as a single sentence-like string.
func (l StringList) Joined() string {
	return strings.Join(l, "; ")
}

// FlexInt decodes from a JSON number or a numeric string. Fractions are rounded.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	f, err := flexNumber(data)
	if err != nil {
		return err
	}
	*n = FlexInt(math.Round(f))
	return nil
}

// FlexFloat decodes from a JSON number or a numeric string.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexFloat) UnmarshalJSON(data []byte) error {
	f, err := flexNumber(data)
	if err != nil {
		return err
	}
	*n = FlexFloat(f)
	return nil
}

func flexNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("expected number: %s", data)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number: %q", s)
	}
	return f, nil
}

// Text decodes any JSON scalar into its text form. Arrays are joined with "; ".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var l StringList
		if err := l.UnmarshalJSON(data); err != nil {
			return err
		}
		*t = Text(l.Joined())
		return nil
	}
	*t = Text(data)
	return nil
}

// FlexBool decodes from a JSON bool or from "true"/"false"/"yes"/"no" strings.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(data, []byte("null")) {
			*b = false
			return nil
		}
		return fmt.Errorf("expected boolean: %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		*b = true
	case "false", "no", "0", "":
		*b = false
	default:
		return fmt.Errorf("expected boolean: %q", s)
	}
	return nil
}

// UnmarshalList decodes a JSON array, or an object holding the array under key.
func UnmarshalList[T any](data []byte, key string) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		inner, ok := wrapper[key]
		if !ok {
			return nil, fmt.Errorf("expected an array or an object with %q", key)
		}
		data = inner
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
