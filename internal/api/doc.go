// Package api exposes the bunny task runner over HTTP.
//
// Handlers decode and validate JSON requests, call the bunny service or the
// service catalog, and map errors to status codes with MapErrorToStatusCode.
// Error bodies only ever carry a safe message and the request's trace id;
// details are logged after redaction.
package api
