// Package source defines the raw contact source that abx extracts from, plus its adapters.
//
// A [Source] is opened per request through an [Opener], exposes a record count and random access by
// index, and must be closed by the requester. Each [Record] answers three kinds of lookups:
//
//   - [Record.Value] : one scalar property by name
//   - [Record.MultiValue] : an ordered labeled container (phones, emails, addresses)
//   - [Record.ImageData] : the optional photo blob
//
// Adapters:
//   - [SQLiteSource] : the macOS AddressBook Core Data store (AddressBook-v22.abcddb), opened read-only
//   - [JSONSource] : a JSON array of raw records
//   - [MemorySource] : in-memory records, mostly for tests
package source
