package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type temporalJSON struct {
	Time string `json:"time"`
}

// MarshalJSON implements json.Marshaler.
// Temporal values are written as {"time": "<RFC3339>"} to keep them apart from strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumeric:
		return json.Marshal(v.num)
	case KindTemporal:
		t, _ := v.Time()
		return json.Marshal(temporalJSON{Time: t.Format(time.RFC3339Nano)})
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.num != 0)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(j []byte) error {
	j = bytes.TrimSpace(j)
	if len(j) == 0 {
		return fmt.Errorf("%w: empty JSON value", ErrValidation)
	}

	switch j[0] {
	case 'n':
		*v = None()
		return nil
	case 't', 'f':
		var b bool
		if e := json.Unmarshal(j, &b); e != nil {
			return e
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if e := json.Unmarshal(j, &s); e != nil {
			return e
		}
		*v = Str(s)
		return nil
	case '{':
		var tj temporalJSON
		if e := json.Unmarshal(j, &tj); e != nil {
			return e
		}
		t, e := time.Parse(time.RFC3339Nano, tj.Time)
		if e != nil {
			return fmt.Errorf("%w: bad temporal value: %v", ErrValidation, e)
		}
		*v = Time(t)
		return nil
	}

	var x float64
	if e := json.Unmarshal(j, &x); e != nil {
		return e
	}
	*v = Num(x)
	return nil
}
