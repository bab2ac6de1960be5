// Package tasks runs contact operations against an address-book source.
//
// # Core Operations
//
// [Engine] exposes four operations:
//
//  1. [Engine.Count] : number of contact records in the source
//  2. [Engine.Get] : one contact by index, or [shared.ErrOutOfRange]
//  3. [Engine.Me] : the owner card, or [shared.ErrNoOwner]
//  4. [Engine.Start] : a background [Job] enumerating every contact
//
// The first three open the source, read, and close it before returning.
//
// # Progress Reporting
//
// A [Job] emits one [ProgressUpdate] per record, in index order, followed by exactly one terminal [Event]
// carrying either the full ordered list or the failure. Sends block: updates are never dropped or
// coalesced, so a consumer must drain [Job.Events] until it is closed. [Job.Run] and [Job.Wait] do this
// on the calling goroutine.
//
// A job that fails, including through cancellation of its context, discards the records read so far.
package tasks
