// Package resp writes the JSON envelope used by every discovery endpoint.
//
// Successful responses carry the payload as the body:
//
//	resp.Success(w, result)
//
// Failures are written as an Exception with a business code from ecode:
//
//	{
//	  "code": -401,
//	  "message": "size invalid: must be between 1 and 100",
//	  "errors": {...}
//	}
//
// Error derives the status and code from an error returned by the service
// layer:
//
//	if err != nil {
//	    resp.Error(w, err)
//	    return
//	}
package resp
