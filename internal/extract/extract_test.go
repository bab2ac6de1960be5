package extract

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/source"
	"github.com/stretchr/testify/assert"
)

// brokenRecord fails every lookup.
type brokenRecord struct{}

func (brokenRecord) Value(source.Property) (any, error) {
	return nil, errors.New("stale handle")
}
func (brokenRecord) MultiValue(source.Property) (*source.MultiValue, error) {
	return nil, errors.New("stale handle")
}
func (brokenRecord) ImageData() ([]byte, error) { return nil, errors.New("stale handle") }
func (brokenRecord) Close() error               { return nil }

func addressFields(rec models.ContactRecord) []string {
	return []string{rec.Street(), rec.City(), rec.State(), rec.Zip(), rec.Country()}
}

func TestExtract(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		rec := Extract(source.MapRecord{
			"uid":          "A1:ABPerson",
			"first_name":   "Ada",
			"last_name":    "Lovelace",
			"nickname":     "Countess",
			"organization": "Analytical Engines",
			"job_title":    "Programmer",
			"note":         "First programmer",
			"phone": []any{
				map[string]any{"label": "mobile", "value": "555-0101"},
				map[string]any{"label": "work", "value": "555-0102"},
			},
			"email": []any{map[string]any{"label": "home", "value": "ada@example.com"}},
			"address": map[string]any{"entries": []any{
				map[string]any{"id": "h", "value": map[string]any{
					"street": "1 Home St", "city": "London", "state": "LDN", "zip": "N1", "country": "UK",
				}},
			}},
			"image": "TWFu",
		})

		assert.Equal(t, "A1:ABPerson", rec.UniqueID())
		assert.Equal(t, "Ada", rec.FirstName())
		assert.Equal(t, "Lovelace", rec.LastName())
		assert.Equal(t, "Countess", rec.Nickname())
		assert.Equal(t, "Analytical Engines", rec.Organization())
		assert.Equal(t, "Programmer", rec.Title())
		assert.Equal(t, "First programmer", rec.Note())
		assert.Equal(t, []models.LabeledValue{{Label: "mobile", Value: "555-0101"}, {Label: "work", Value: "555-0102"}}, rec.PhoneNumbers())
		assert.Equal(t, []models.LabeledValue{{Label: "home", Value: "ada@example.com"}}, rec.Emails())
		assert.Equal(t, []string{"1 Home St", "London", "LDN", "N1", "UK"}, addressFields(rec))
		assert.Equal(t, "TWFu", rec.Image())
	})

	t.Run("missing scalars are empty strings", func(t *testing.T) {
		rec := Extract(source.MapRecord{})

		for _, got := range []string{
			rec.UniqueID(), rec.FirstName(), rec.LastName(), rec.Nickname(),
			rec.Organization(), rec.Title(), rec.Note(), rec.Image(),
		} {
			assert.Equal(t, "", got)
		}
		assert.Equal(t, []string{"", "", "", "", ""}, addressFields(rec))
	})

	t.Run("wrong types are empty strings", func(t *testing.T) {
		rec := Extract(source.MapRecord{"first_name": 7, "last_name": []any{"x"}, "note": true})

		assert.Equal(t, "", rec.FirstName())
		assert.Equal(t, "", rec.LastName())
		assert.Equal(t, "", rec.Note())
	})

	t.Run("zero entries give empty lists", func(t *testing.T) {
		rec := Extract(source.MapRecord{"phone": []any{}, "email": map[string]any{"entries": []any{}}})

		assert.NotNil(t, rec.PhoneNumbers())
		assert.Len(t, rec.PhoneNumbers(), 0)
		assert.NotNil(t, rec.Emails())
		assert.Len(t, rec.Emails(), 0)
	})

	t.Run("entries are never skipped", func(t *testing.T) {
		rec := Extract(source.MapRecord{"phone": []any{
			map[string]any{},
			map[string]any{"label": 5, "value": 6},
			"garbage",
			map[string]any{"label": "home", "value": "1"},
		}})

		assert.Equal(t, []models.LabeledValue{{}, {}, {}, {Label: "home", Value: "1"}}, rec.PhoneNumbers())
	})

	t.Run("primary address wins", func(t *testing.T) {
		rec := Extract(source.MapRecord{"address": map[string]any{
			"primary": "w",
			"entries": []any{
				map[string]any{"id": "h", "value": map[string]any{"street": "1 Home St", "city": "London"}},
				map[string]any{"id": "w", "value": map[string]any{
					"street": "2 Work Rd", "city": "Cambridge", "state": "Cambs", "zip": "CB1", "country": "UK",
				}},
			},
		}})

		assert.Equal(t, []string{"2 Work Rd", "Cambridge", "Cambs", "CB1", "UK"}, addressFields(rec))
	})

	t.Run("unresolved primary falls back to first entry", func(t *testing.T) {
		rec := Extract(source.MapRecord{"address": map[string]any{
			"primary": "gone",
			"entries": []any{
				map[string]any{"id": "h", "value": map[string]any{"street": "1 Home St"}},
				map[string]any{"id": "w", "value": map[string]any{"street": "2 Work Rd"}},
			},
		}})

		assert.Equal(t, "1 Home St", rec.Street())
		assert.Equal(t, "", rec.City())
	})

	t.Run("malformed address entry empties all five", func(t *testing.T) {
		rec := Extract(source.MapRecord{"address": []any{map[string]any{"value": "1 Home St, London"}}})

		assert.Equal(t, []string{"", "", "", "", ""}, addressFields(rec))
	})

	t.Run("empty image collapses to empty string", func(t *testing.T) {
		assert.Equal(t, "", Extract(source.MapRecord{"image": ""}).Image())
		assert.Equal(t, "", Extract(source.MapRecord{"image": "***"}).Image())
	})

	t.Run("unreadable record degrades to empty", func(t *testing.T) {
		rec := Extract(brokenRecord{})

		assert.Equal(t, "", rec.UniqueID())
		assert.Empty(t, rec.PhoneNumbers())
		assert.NotNil(t, rec.PhoneNumbers())
		assert.Empty(t, rec.Emails())
		assert.Equal(t, []string{"", "", "", "", ""}, addressFields(rec))
		assert.Equal(t, "", rec.Image())
	})

	t.Run("record is not mutated", func(t *testing.T) {
		raw := source.MapRecord{"first_name": "Ada", "phone": []any{map[string]any{"label": "m", "value": "1"}}}
		Extract(raw)

		assert.Equal(t, source.MapRecord{"first_name": "Ada", "phone": []any{map[string]any{"label": "m", "value": "1"}}}, raw)
	})
}

func TestExtractor_LogsAbsorbedErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)
	logger.SetLevel(log.DebugLevel)

	New(logger).Extract(brokenRecord{})

	assert.Contains(t, buf.String(), "field unreadable")
	assert.Contains(t, buf.String(), "stale handle")
}
