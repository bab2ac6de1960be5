package source

import (
	"context"
	"fmt"

	"github.com/desertthunder/abx/internal/shared"
)

// Property names a raw record field.
type Property string

const (
	UID          Property = "uid"
	FirstName    Property = "first_name"
	LastName     Property = "last_name"
	Nickname     Property = "nickname"
	Organization Property = "organization"
	JobTitle     Property = "job_title"
	Note         Property = "note"
	Phone        Property = "phone"
	Email        Property = "email"
	Address      Property = "address"
)

// Address dictionary keys.
const (
	AddressStreet  = "street"
	AddressCity    = "city"
	AddressState   = "state"
	AddressZIP     = "zip"
	AddressCountry = "country"
)

// Entry is one item of a [MultiValue].
//
// Value is a string for phones and emails and a map[string]any for addresses.
type Entry struct {
	Identifier string
	Label      string
	Value      any
}

// MultiValue is an ordered labeled container.
type MultiValue struct {
	PrimaryIdentifier string
	Entries           []Entry
}

// Len returns the number of entries.
func (m *MultiValue) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// IndexForIdentifier returns the index of the entry with the given identifier, or -1.
func (m *MultiValue) IndexForIdentifier(id string) int {
	if m == nil || id == "" {
		return -1
	}
	for i, e := range m.Entries {
		if e.Identifier == id {
			return i
		}
	}
	return -1
}

// Record is one raw contact.
//
// Lookups of absent properties return (nil, nil). Errors mean the property exists but could not be read.
type Record interface {
	Value(p Property) (any, error)
	MultiValue(p Property) (*MultiValue, error)
	ImageData() ([]byte, error)
	Close() error
}

// Source is an opened raw contact source.
type Source interface {
	Count(ctx context.Context) (int, error)
	Record(ctx context.Context, index int) (Record, error)
	Close() error
}

// OwnerSource is implemented by sources that know the address book owner's card.
type OwnerSource interface {
	Me(ctx context.Context) (Record, error)
}

// Opener opens a fresh [Source] for one request.
type Opener func(ctx context.Context) (Source, error)

// NewOpener returns the [Opener] configured by kind (see [shared.SourceKindABCDDB] and [shared.SourceKindJSON]).
func NewOpener(kind, path, ownerID string) (Opener, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: source path is empty", shared.ErrInvalidConfig)
	}
	switch kind {
	case shared.SourceKindABCDDB:
		return func(ctx context.Context) (Source, error) {
			src, err := OpenSQLite(ctx, path, ownerID)
			if err != nil {
				return nil, err
			}
			return src, nil
		}, nil
	case shared.SourceKindJSON:
		return func(ctx context.Context) (Source, error) {
			src, err := OpenJSON(path, ownerID)
			if err != nil {
				return nil, err
			}
			return src, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", shared.ErrInvalidConfig, kind)
	}
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: index %d, %d records available", shared.ErrOutOfRange, index, count)
	}
	return nil
}
