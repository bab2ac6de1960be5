// Package extract maps raw source records into [models.ContactRecord] values.
//
// Extraction is best effort: a field that is absent, of the wrong type, or unreadable becomes an empty
// string (or an empty list) and never fails the record.
package extract

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/codec"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/source"
)

// Extractor converts raw records. The zero value is ready to use and silent.
type Extractor struct {
	logger *log.Logger
}

// New returns an [Extractor] that reports absorbed field errors to logger at debug level.
func New(logger *log.Logger) *Extractor {
	return &Extractor{logger: logger}
}

var silent = &Extractor{}

// Extract converts rec with a silent [Extractor].
func Extract(rec source.Record) models.ContactRecord {
	return silent.Extract(rec)
}

// Extract builds a [models.ContactRecord] from rec. It does not close rec.
func (e *Extractor) Extract(rec source.Record) models.ContactRecord {
	f := models.ContactFields{
		UniqueID:     e.scalar(rec, source.UID),
		FirstName:    e.scalar(rec, source.FirstName),
		LastName:     e.scalar(rec, source.LastName),
		Nickname:     e.scalar(rec, source.Nickname),
		Organization: e.scalar(rec, source.Organization),
		Title:        e.scalar(rec, source.JobTitle),
		Note:         e.scalar(rec, source.Note),
		Image:        e.image(rec),
		PhoneNumbers: e.labeled(rec, source.Phone),
		Emails:       e.labeled(rec, source.Email),
	}
	addr := e.primaryAddress(rec)
	f.Street = addr[source.AddressStreet]
	f.City = addr[source.AddressCity]
	f.State = addr[source.AddressState]
	f.Zip = addr[source.AddressZIP]
	f.Country = addr[source.AddressCountry]

	return models.NewContactRecord(f)
}

func (e *Extractor) scalar(rec source.Record, p source.Property) string {
	v, err := rec.Value(p)
	if err != nil {
		e.absorb(p, err)
		return ""
	}
	return str(v)
}

// labeled returns one [models.LabeledValue] per entry, in source order, even when both parts are empty.
func (e *Extractor) labeled(rec source.Record, p source.Property) []models.LabeledValue {
	mv, err := rec.MultiValue(p)
	if err != nil {
		e.absorb(p, err)
		return []models.LabeledValue{}
	}

	out := make([]models.LabeledValue, 0, mv.Len())
	if mv == nil {
		return out
	}
	for _, entry := range mv.Entries {
		out = append(out, models.LabeledValue{Label: entry.Label, Value: str(entry.Value)})
	}
	return out
}

// primaryAddress reads the five address keys from one entry: the container's primary entry, else the first.
//
// The result is either fully populated from that entry or empty.
func (e *Extractor) primaryAddress(rec source.Record) map[string]string {
	out := map[string]string{}

	mv, err := rec.MultiValue(source.Address)
	if err != nil {
		e.absorb(source.Address, err)
		return out
	}
	if mv.Len() == 0 {
		return out
	}

	idx := mv.IndexForIdentifier(mv.PrimaryIdentifier)
	if idx < 0 {
		idx = 0
	}

	dict, ok := mv.Entries[idx].Value.(map[string]any)
	if !ok {
		e.absorb(source.Address, shared.ErrFieldUnreadable)
		return out
	}
	for _, key := range []string{
		source.AddressStreet,
		source.AddressCity,
		source.AddressState,
		source.AddressZIP,
		source.AddressCountry,
	} {
		out[key] = str(dict[key])
	}
	return out
}

func (e *Extractor) image(rec source.Record) string {
	b, err := rec.ImageData()
	if err != nil {
		e.absorb(source.Property("image"), err)
		return ""
	}
	return codec.Encode(b)
}

func (e *Extractor) absorb(p source.Property, err error) {
	if e.logger == nil {
		return
	}
	if !errors.Is(err, shared.ErrFieldUnreadable) {
		err = errors.Join(shared.ErrFieldUnreadable, err)
	}
	e.logger.Debug("field unreadable", "property", p, "err", err)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
