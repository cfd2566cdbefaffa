package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a post identifier. The Discourse API sends numbers, older dumps and
// the sample set carry strings; an ID is written back in the form it was read.
type ID struct {
	value  string
	quoted bool
}

func NumericID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10)}
}

func StringID(s string) ID {
	return ID{value: s, quoted: true}
}

func (id ID) String() string {
	return id.value
}

func (id ID) Equal(other ID) bool {
	return id == other
}

// IsString reports whether the id is written as a JSON string
func (id ID) IsString() bool {
	return id.quoted
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.quoted {
		return json.Marshal(id.value)
	}
	if id.value == "" {
		return []byte("null"), nil
	}
	return []byte(id.value), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a string or a number: %w", err)
	}
	*id = ID{value: n.String()}
	return nil
}
