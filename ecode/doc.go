// Package ecode defines the business error codes returned by the discovery
// service and a typed error that carries one of them.
//
// Codes follow the convention:
//   - 0: Success (OK)
//   - -400 to -499: request and resource errors
//   - -500+: server errors
//
// Search code paths classify every failure into one of three kinds:
//
//	ecode.InvalidQuery        // -401: the query failed validation
//	ecode.NotFound            // -404: the referenced listing does not exist
//	ecode.BackendUnavailable  // -503: the data store timed out or failed
//
// Wrap low level errors with the helper for their kind:
//
//	if err != nil {
//	    return nil, ecode.Unavailable("index search", err)
//	}
//
// and inspect them at the boundary:
//
//	status := ecode.ToHTTPStatus(ecode.CodeOf(err))
package ecode
