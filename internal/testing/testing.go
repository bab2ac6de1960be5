// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/abx/internal/source"
)

// SampleRecords returns three raw records: a full person, a sparse person, and a company card.
func SampleRecords() []source.Record {
	return []source.Record{
		source.MapRecord{
			"uid":          "A1:ABPerson",
			"first_name":   "Ada",
			"last_name":    "Lovelace",
			"nickname":     "Countess",
			"organization": "Analytical Engines",
			"job_title":    "Programmer",
			"note":         "First programmer",
			"phone": map[string]any{
				"primary": "P1",
				"entries": []any{
					map[string]any{"id": "P1", "label": "_$!<Mobile>!$_", "value": "555-0101"},
					map[string]any{"id": "P2", "label": "_$!<Work>!$_", "value": "555-0102"},
				},
			},
			"email": []any{
				map[string]any{"id": "E1", "label": "_$!<Home>!$_", "value": "ada@example.com"},
			},
			"address": map[string]any{
				"primary": "AD2",
				"entries": []any{
					map[string]any{"id": "AD1", "label": "_$!<Home>!$_", "value": map[string]any{
						"street": "12 St James's Square", "city": "London", "state": "", "zip": "SW1Y", "country": "UK",
					}},
					map[string]any{"id": "AD2", "label": "_$!<Work>!$_", "value": map[string]any{
						"street": "1 Engine Row", "city": "Cambridge", "state": "Cambs", "zip": "CB2", "country": "UK",
					}},
				},
			},
			"image": "TWFu",
		},
		source.MapRecord{
			"uid":        "B2:ABPerson",
			"first_name": "Grace",
			"last_name":  "Hopper",
		},
		source.MapRecord{
			"uid":          "C3:ABPerson",
			"organization": "Acme",
			"phone":        []any{map[string]any{"label": "Main", "value": "555-0199"}},
		},
	}
}

// SampleOwner returns the record used as the owner card in fixtures.
func SampleOwner() source.Record {
	return source.MapRecord{"uid": "ME:ABPerson", "first_name": "Owner", "last_name": "Person"}
}

// SampleSource returns a [source.MemorySource] over [SampleRecords] with [SampleOwner].
func SampleSource() *source.MemorySource {
	return source.NewMemorySource(SampleRecords()...).WithOwner(SampleOwner())
}

// FailingOpener is a [source.Opener] that never succeeds.
func FailingOpener(ctx context.Context) (source.Source, error) {
	return nil, errors.New("address book locked")
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to name inside a fresh temp dir and returns the full path.
func MustWriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
