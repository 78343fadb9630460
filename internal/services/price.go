package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price accepts a JSON number or a numeric string. It remembers whether
// the key was present so absence and bad values can be told apart.
type Price struct {
	present bool
	value   float64
	err     error
}

// NewPrice returns a present, valid price.
func NewPrice(v float64) Price {
	return Price{present: true, value: v}
}

// UnmarshalJSON never fails; problems surface through Float.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = Price{}

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			p.present, p.err = true, err
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		p.present = true
		p.value, p.err = strconv.ParseFloat(s, 64)
	default:
		p.present = true
		p.err = json.Unmarshal(data, &p.value)
	}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.present || p.err != nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// Present reports whether a non-null, non-blank price was supplied.
func (p Price) Present() bool {
	return p.present
}

// Float returns the price or ErrInvalidPrice when it is not a positive
// finite number.
func (p Price) Float() (float64, error) {
	if p.err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, p.err)
	}
	if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value <= 0 {
		return 0, fmt.Errorf("%w: must be a positive number", ErrInvalidPrice)
	}
	return p.value, nil
}
