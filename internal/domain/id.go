package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier issued by the backend. Some backends send strings,
// others numbers; ID remembers which so it is sent back in the same form.
type ID struct {
	v       string
	numeric bool
}

func StringID(s string) ID { return ID{v: s} }

func NumericID(n int64) ID { return ID{v: strconv.FormatInt(n, 10), numeric: true} }

func (id ID) String() string { return id.v }

func (id ID) IsZero() bool { return id.v == "" }

// Absent reports whether the id counts as missing: unset, empty string or numeric zero.
func (id ID) Absent() bool {
	if id.v == "" {
		return true
	}
	if id.numeric {
		f, err := strconv.ParseFloat(id.v, 64)
		return err == nil && f == 0
	}
	return false
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.v == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.v), nil
	}
	return json.Marshal(id.v)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID{v: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID{v: n.String(), numeric: true}
	return nil
}
