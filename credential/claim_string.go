package credential

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ClaimString is a payload identifier that backends emit either as a JSON
// string or as a number. Numbers keep their literal form ("42", not "42.0").
type ClaimString string

func (c *ClaimString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ClaimString(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case json.Number:
		*c = ClaimString(v.String())
	case bool:
		*c = ClaimString(fmt.Sprint(v))
	default:
		return fmt.Errorf("claim must be a string or number, got %s", data)
	}
	return nil
}

func (c ClaimString) String() string { return string(c) }
