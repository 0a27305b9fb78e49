// Package httpapi exposes the detection pipeline over HTTP.
//
// The surface follows Azure Functions conventions: GET /api/process_file
// drives the pipeline through query parameters, and callers authenticate
// with a function key passed as the "code" query parameter or the
// "x-functions-key" header.
package httpapi
