// package formatter converts contacts into their presented shape and writes them as JSON, YAML, CSV, or text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"gopkg.in/yaml.v2"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatText}

// ParseFormat resolves a user-supplied format name. "yml" and "txt" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Contact is the presented shape of a [models.ContactRecord].
type Contact struct {
	ID            string         `json:"id" yaml:"id"`
	Name          Name           `json:"name" yaml:"name"`
	Nickname      string         `json:"nickname" yaml:"nickname"`
	Organizations []Organization `json:"organizations" yaml:"organizations"`
	Note          string         `json:"note" yaml:"note"`
	Addresses     []Address      `json:"addresses" yaml:"addresses"`
	Emails        []Labeled      `json:"emails" yaml:"emails"`
	PhoneNumbers  []Labeled      `json:"phoneNumbers" yaml:"phoneNumbers"`
	Image         string         `json:"image" yaml:"image"`
}

type Name struct {
	GivenName  string `json:"givenName" yaml:"givenName"`
	FamilyName string `json:"familyName" yaml:"familyName"`
}

type Organization struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

type Address struct {
	Pref          bool   `json:"pref" yaml:"pref"`
	StreetAddress string `json:"streetAddress" yaml:"streetAddress"`
	Locality      string `json:"locality" yaml:"locality"`
	Region        string `json:"region" yaml:"region"`
	PostalCode    string `json:"postalCode" yaml:"postalCode"`
	Country       string `json:"country" yaml:"country"`
}

// Labeled is a presented phone number or email.
type Labeled struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Present converts c into its presented shape. The single organization and address are always present,
// the address marked preferred.
func Present(c models.ContactRecord) Contact {
	return Contact{
		ID:            c.UniqueID(),
		Name:          Name{GivenName: c.FirstName(), FamilyName: c.LastName()},
		Nickname:      c.Nickname(),
		Organizations: []Organization{{Name: c.Organization(), Title: c.Title()}},
		Note:          c.Note(),
		Addresses: []Address{{
			Pref:          true,
			StreetAddress: c.Street(),
			Locality:      c.City(),
			Region:        c.State(),
			PostalCode:    c.Zip(),
			Country:       c.Country(),
		}},
		Emails:       presentLabeled(c.Emails()),
		PhoneNumbers: presentLabeled(c.PhoneNumbers()),
		Image:        c.Image(),
	}
}

// PresentAll presents contacts, preserving order.
func PresentAll(contacts []models.ContactRecord) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, Present(c))
	}
	return out
}

func presentLabeled(values []models.LabeledValue) []Labeled {
	out := make([]Labeled, 0, len(values))
	for _, v := range values {
		out = append(out, Labeled{Type: DecodeLabel(v.Label), Value: v.Value})
	}
	return out
}

var builtinLabel = regexp.MustCompile(`<(.*)>`)

// DecodeLabel turns a built-in label such as "_$!<Mobile>!$_" into "mobile". Custom labels are only
// lower-cased.
func DecodeLabel(label string) string {
	if strings.HasPrefix(label, "_$!") {
		if m := builtinLabel.FindStringSubmatch(label); m != nil {
			label = m[1]
		}
	}
	return strings.ToLower(label)
}

// Write encodes contacts to w in format f.
func Write(w io.Writer, f Format, contacts []Contact) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, contacts)
	case FormatYAML:
		return writeYAML(w, contacts)
	case FormatCSV:
		return WriteCSV(w, contacts)
	case FormatText:
		return WriteText(w, contacts)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteOne encodes a single contact. JSON and YAML produce an object rather than a list.
func WriteOne(w io.Writer, f Format, c Contact) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatYAML:
		return writeYAML(w, c)
	default:
		return Write(w, f, []Contact{c})
	}
}

// WriteFile writes contacts to path in format f, replacing any existing file.
func WriteFile(path string, f Format, contacts []Contact) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(file, f, contacts); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}

var csvHeaders = []string{
	"ID", "Given Name", "Family Name", "Nickname", "Organization", "Title",
	"Street", "City", "Region", "Postal Code", "Country", "Emails", "Phone Numbers", "Note",
}

// WriteCSV writes one row per contact. Emails and phone numbers are joined as "type:value" pairs
// separated by "; ". Images are omitted.
func WriteCSV(w io.Writer, contacts []Contact) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range contacts {
		org, addr := first(c.Organizations), firstAddress(c.Addresses)
		record := []string{
			c.ID,
			c.Name.GivenName,
			c.Name.FamilyName,
			c.Nickname,
			org.Name,
			org.Title,
			addr.StreetAddress,
			addr.Locality,
			addr.Region,
			addr.PostalCode,
			addr.Country,
			joinLabeled(c.Emails),
			joinLabeled(c.PhoneNumbers),
			c.Note,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// WriteText writes a numbered, human-readable listing.
func WriteText(w io.Writer, contacts []Contact) error {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Contacts: %d\n\n", len(contacts)))
	for i, c := range contacts {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, DisplayName(c)))

		org := first(c.Organizations)
		if org.Name != "" || org.Title != "" {
			buf.WriteString(fmt.Sprintf("   Organization: %s\n", joinNonEmpty(", ", org.Title, org.Name)))
		}
		for _, p := range c.PhoneNumbers {
			buf.WriteString(fmt.Sprintf("   Phone (%s): %s\n", labelOr(p.Type), p.Value))
		}
		for _, e := range c.Emails {
			buf.WriteString(fmt.Sprintf("   Email (%s): %s\n", labelOr(e.Type), e.Value))
		}
		addr := firstAddress(c.Addresses)
		if line := joinNonEmpty(", ", addr.StreetAddress, addr.Locality, addr.Region, addr.PostalCode, addr.Country); line != "" {
			buf.WriteString(fmt.Sprintf("   Address: %s\n", line))
		}
		if c.Note != "" {
			buf.WriteString(fmt.Sprintf("   Note: %s\n", c.Note))
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}

// DisplayName picks the best available label for a presented contact.
func DisplayName(c Contact) string {
	if name := joinNonEmpty(" ", c.Name.GivenName, c.Name.FamilyName); name != "" {
		return name
	}
	if c.Nickname != "" {
		return c.Nickname
	}
	if org := first(c.Organizations); org.Name != "" {
		return org.Name
	}
	if c.ID != "" {
		return c.ID
	}
	return "(no name)"
}

func first(orgs []Organization) Organization {
	if len(orgs) == 0 {
		return Organization{}
	}
	return orgs[0]
}

func firstAddress(addrs []Address) Address {
	if len(addrs) == 0 {
		return Address{}
	}
	return addrs[0]
}

func joinLabeled(values []Labeled) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s:%s", v.Type, v.Value))
	}
	return strings.Join(parts, "; ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func labelOr(label string) string {
	if label == "" {
		return "other"
	}
	return label
}
