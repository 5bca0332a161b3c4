// Package http implements the HTTP handlers of the attendance API.
//
// Handlers stay thin: they decode and validate the request, call the
// attendance service, and render either a JSON body with go-chi/render or an
// RFC 7807 problem through errors.ErrorHandler. Service sentinel errors are
// translated to API errors in one place (mapServiceError) so every route
// reports the same status and error code for the same failure.
//
// Routes mounted under /api/attendance:
//
//	POST /parse           replace the snapshot from a JSON or text/plain body
//	POST /upload          replace the snapshot from a multipart "file" field
//	GET  /files           logs stored in the data directory
//	POST /files/{name}/load replace the snapshot from a stored log
//	GET  /                one page of rolls (?page=&page_size=)
//	GET  /format          the accepted log grammar
//	GET  /rolls/{roll}    one roll
//	GET  /export/{format} xlsx, csv or pdf download with ETag support
//	POST /publish         push the export rows to Google Sheets
package http
