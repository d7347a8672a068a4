// Package utils provides shared helpers for the transit catalogue.
//
// It contains:
//   - Geographic coordinates and great-circle distance
//   - Unit conversion constants used by the routing cost model
package utils
