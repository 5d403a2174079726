package serialize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/n-sviridenko/pyprep/pkg/errors"
)

func TestSerializePrimitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "hello", "hello"},
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"negative int", -7, int64(-7)},
		{"uint", uint8(255), uint64(255)},
		{"float", 3.5, 3.5},
		{"named string type", namedString("x"), "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Robust(tt.in)
			if err != nil {
				t.Fatalf("Robust() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Robust(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

type namedString string

func TestSerializeSequences(t *testing.T) {
	got, err := Robust([]any{1, "two", []int{3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{int64(1), "two", []any{int64(3), int64(4)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Robust() = %v, want %v", got, want)
	}
}

func TestSerializeMapCoercesKeys(t *testing.T) {
	got, err := Robust(map[int]string{1: "one", 2: "two"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"1": "one", "2": "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Robust() = %v, want %v", got, want)
	}
}

func TestSerializeSet(t *testing.T) {
	got, err := Robust(map[int]struct{}{1: {}, 2: {}, 3: {}})
	if err != nil {
		t.Fatal(err)
	}
	items, ok := got.([]any)
	if !ok {
		t.Fatalf("Robust() = %T, want []any", got)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].(int64) < items[j].(int64) })
	want := []any{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("set items = %v, want %v", items, want)
	}
}

func TestSerializeTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "midnight utc is a plain date",
			in:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2024-01-01",
		},
		{
			name: "timestamp keeps the clock",
			in:   time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			want: "2024-01-01T10:30:00Z",
		},
		{
			name: "midnight in a non-utc zone is a timestamp",
			in:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600)),
			want: "2024-01-01T00:00:00+01:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Robust(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Robust() = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeFallback(t *testing.T) {
	got, err := Robust(make(chan int))
	if err != nil {
		t.Fatal(err)
	}
	record, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Robust() = %T, want fallback record", got)
	}
	if record["type"] != "not serializable" {
		t.Errorf("type = %v", record["type"])
	}
	if record["repr"] == "" {
		t.Error("repr is empty")
	}
}

func TestSerializeFallbackInsideContainer(t *testing.T) {
	got, err := Robust(map[string]any{"fn": func() {}, "n": 1})
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if m["n"] != int64(1) {
		t.Errorf("n = %v", m["n"])
	}
	if _, ok := m["fn"].(map[string]any); !ok {
		t.Errorf("fn = %T, want fallback record", m["fn"])
	}
}

func TestSerializeDereferencesPointers(t *testing.T) {
	n := 5
	got, err := Robust(&n)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(5) {
		t.Errorf("Robust(&5) = %v", got)
	}

	var p *int
	got, err = Robust(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Robust(nil ptr) = %v, want nil", got)
	}
}

func TestSerializeIdempotent(t *testing.T) {
	in := map[string]any{
		"list": []any{int64(1), "two", nil},
		"set":  []any{int64(3)},
		"date": "2024-01-01",
	}
	once, err := Robust(in)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Robust(once)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed output:\nonce  = %v\ntwice = %v", once, twice)
	}
}

func TestSerializeDepthExceeded(t *testing.T) {
	deep := any("bottom")
	for range 10 {
		deep = []any{deep}
	}

	if _, err := (Serializer{MaxDepth: 5}).Serialize(deep); !errors.Is(err, errors.ErrCodeDepthExceeded) {
		t.Errorf("error = %v, want DEPTH_EXCEEDED", err)
	}
	if _, err := (Serializer{MaxDepth: 50}).Serialize(deep); err != nil {
		t.Errorf("error = %v, want success within budget", err)
	}
}

func TestSerializeSelfReference(t *testing.T) {
	// No cycle detection: the walk must stop at the depth budget instead of
	// overflowing the stack.
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	_, err := (Serializer{MaxDepth: 20}).Serialize(cyclic)
	if !errors.Is(err, errors.ErrCodeDepthExceeded) {
		t.Errorf("error = %v, want DEPTH_EXCEEDED", err)
	}
}

func TestDumpResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := DumpResult(path, map[string]int{"a": 1}); err != nil {
		t.Fatalf("DumpResult() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got["a"] != float64(1) {
		t.Errorf("decoded = %v", got)
	}
}

func TestDumpResultOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := DumpResult(path, "fresh"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got string
	if err := json.Unmarshal(data, &got); err != nil || got != "fresh" {
		t.Errorf("file = %q, want JSON \"fresh\"", data)
	}
}

func TestDumpResultFallbackValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := DumpResult(path, make(chan int)); err != nil {
		t.Fatalf("DumpResult() error = %v, want fallback record written", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["type"] != "not serializable" {
		t.Errorf("decoded = %v", got)
	}
}
