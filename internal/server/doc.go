// Package server exposes the contact engine over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [ChiRouter] implementation delegates to a [chi.Mux], which supplies path parameters and method routing.
//
// # Contact Routes
//
// [ContactsHandler] serves:
//
//	GET /contacts/count    {"count": n}
//	GET /contacts/me       the owner card, 404 when the source has none
//	GET /contacts/{index}  one contact, 404 when out of range
//	GET /contacts          newline-delimited JSON stream
//
// The stream writes one "progress" line per record, in order, then exactly one "done" line carrying every contact
// or one "error" line. Closing the connection cancels the job.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, registering their own routes on a [chi.Router] so route definitions
// stay with the implementation.
package server
