package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OptionalID tells an absent JSON field apart from an explicit null.
// Set is true whenever the key was present; ID is nil for null.
type OptionalID struct {
	Set bool
	ID  *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.ID = nil

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw json.Number
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = json.Number(s)
	} else if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("id must be a number or null: %w", err)
	}

	v, err := strconv.ParseUint(raw.String(), 10, 64)
	if err != nil || v == 0 {
		return fmt.Errorf("invalid id %q", raw.String())
	}
	id := uint(v)
	o.ID = &id
	return nil
}
