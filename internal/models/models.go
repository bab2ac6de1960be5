package models

// LabeledValue is one entry of a multi-valued contact field (e.g. "home" -> "+1 555 0100").
type LabeledValue struct {
	Label string
	Value string
}

// ContactFields carries the values used to build a [ContactRecord].
//
// Address fields are expected to come from a single primary address entry.
type ContactFields struct {
	UniqueID     string
	FirstName    string
	LastName     string
	Nickname     string
	Organization string
	Title        string
	Note         string
	Street       string
	City         string
	State        string
	Zip          string
	Country      string
	Image        string // codec-encoded photo bytes
	PhoneNumbers []LabeledValue
	Emails       []LabeledValue
}

// ContactRecord is an immutable, source-agnostic contact.
type ContactRecord struct {
	f ContactFields
}

// NewContactRecord builds a [ContactRecord] from f.
//
// Labeled value slices are copied so later changes to f do not leak into the record. Nil slices become empty.
func NewContactRecord(f ContactFields) ContactRecord {
	f.PhoneNumbers = cloneLabeled(f.PhoneNumbers)
	f.Emails = cloneLabeled(f.Emails)
	return ContactRecord{f: f}
}

func (c ContactRecord) UniqueID() string     { return c.f.UniqueID }
func (c ContactRecord) FirstName() string    { return c.f.FirstName }
func (c ContactRecord) LastName() string     { return c.f.LastName }
func (c ContactRecord) Nickname() string     { return c.f.Nickname }
func (c ContactRecord) Organization() string { return c.f.Organization }
func (c ContactRecord) Title() string        { return c.f.Title }
func (c ContactRecord) Note() string         { return c.f.Note }
func (c ContactRecord) Street() string       { return c.f.Street }
func (c ContactRecord) City() string         { return c.f.City }
func (c ContactRecord) State() string        { return c.f.State }
func (c ContactRecord) Zip() string          { return c.f.Zip }
func (c ContactRecord) Country() string      { return c.f.Country }
func (c ContactRecord) Image() string        { return c.f.Image }

// PhoneNumbers returns a copy of the phone entries in source order.
func (c ContactRecord) PhoneNumbers() []LabeledValue { return cloneLabeled(c.f.PhoneNumbers) }

// Emails returns a copy of the email entries in source order.
func (c ContactRecord) Emails() []LabeledValue { return cloneLabeled(c.f.Emails) }

// HasAddress reports whether any primary address field is set.
func (c ContactRecord) HasAddress() bool {
	return c.f.Street != "" || c.f.City != "" || c.f.State != "" || c.f.Zip != "" || c.f.Country != ""
}

// DisplayName returns "First Last", falling back to the nickname, the organization, then the unique ID.
func (c ContactRecord) DisplayName() string {
	switch {
	case c.f.FirstName != "" && c.f.LastName != "":
		return c.f.FirstName + " " + c.f.LastName
	case c.f.FirstName != "":
		return c.f.FirstName
	case c.f.LastName != "":
		return c.f.LastName
	case c.f.Nickname != "":
		return c.f.Nickname
	case c.f.Organization != "":
		return c.f.Organization
	default:
		return c.f.UniqueID
	}
}

// Fields returns a copy of the values the record was built from.
func (c ContactRecord) Fields() ContactFields {
	f := c.f
	f.PhoneNumbers = cloneLabeled(f.PhoneNumbers)
	f.Emails = cloneLabeled(f.Emails)
	return f
}

func cloneLabeled(in []LabeledValue) []LabeledValue {
	out := make([]LabeledValue, len(in))
	copy(out, in)
	return out
}
