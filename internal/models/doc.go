// Package models defines the normalized contact entities shared by every abx component.
//
// A [ContactRecord] is built once from a single raw source record and never changes afterwards.
// Absent source data is represented by empty strings and empty slices, so callers never special-case
// missing values:
//   - [ContactRecord] : one contact with names, organization, note, primary address, and photo
//   - [LabeledValue] : one entry of a multi-valued field such as a phone number or email
//   - [ContactFields] : the mutable builder input consumed by [NewContactRecord]
package models
