package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue serializes a field into a MySQL json column.
func jsonValue(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(b), nil
}

// jsonScan deserializes a MySQL json column into dest.
func jsonScan(dest any, src any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, dest)
	case string:
		if data == "" {
			return nil
		}
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("unsupported json column source type %T", src)
	}
}
