package serialize

import (
	"encoding/json"
	"fmt"
	"os"
)

// DumpResult serializes v and writes it to path as indented JSON,
// overwriting any existing file. The serialized form is written even when v
// itself could not be rendered natively; only a depth overrun or an I/O
// failure produce an error.
func DumpResult(path string, v any) error {
	return Serializer{}.DumpResult(path, v)
}

// DumpResult writes the serialized form of v to path using s's depth budget.
func (s Serializer) DumpResult(path string, v any) error {
	out, err := s.Serialize(v)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		f.Close()
		return fmt.Errorf("encode result: %w", err)
	}
	return f.Close()
}
