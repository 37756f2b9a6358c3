package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Flag decodes booleans the API sometimes sends as 0/1 or "0"/"1".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	switch raw {
	case "null", "":
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid flag value %s", data)
	}
	*f = n != 0
	return nil
}
