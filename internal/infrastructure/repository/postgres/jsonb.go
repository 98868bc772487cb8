package postgres

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// toJSONB marshals v for a jsonb column. Nil slices become empty arrays
// so readers never see SQL NULL.
func toJSONB(v any) ([]byte, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

// toJSONBObject is toJSONB for struct columns, defaulting to an empty
// object instead of an empty array.
func toJSONBObject(v any) ([]byte, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(data) == "null" {
		return []byte("{}"), nil
	}
	return data, nil
}

func fromJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}
