// Package formatter serializes stat request responses.
//
// Responses are written as one JSON array, in request order, with numbers in
// their shortest round-tripping form.
package formatter
