package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/abx/internal/formatter"
)

var _ list.Item = contactItem{}

// contactItem wraps [formatter.Contact] to implement [list.Item].
type contactItem struct {
	contact formatter.Contact
}

func (i contactItem) FilterValue() string {
	org := ""
	if len(i.contact.Organizations) > 0 {
		org = i.contact.Organizations[0].Name
	}
	return strings.Join([]string{formatter.DisplayName(i.contact), i.contact.Nickname, org}, " ")
}

func (i contactItem) Title() string { return formatter.DisplayName(i.contact) }

func (i contactItem) Description() string {
	parts := []string{}
	if len(i.contact.PhoneNumbers) > 0 {
		parts = append(parts, i.contact.PhoneNumbers[0].Value)
	}
	if len(i.contact.Emails) > 0 {
		parts = append(parts, i.contact.Emails[0].Value)
	}
	if len(parts) == 0 {
		return "no phone or email"
	}
	desc := strings.Join(parts, " • ")
	if extra := len(i.contact.PhoneNumbers) + len(i.contact.Emails) - len(parts); extra > 0 {
		desc = fmt.Sprintf("%s (+%d)", desc, extra)
	}
	return desc
}
