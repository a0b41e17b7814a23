// Package export serializes layouts: a versioned JSON document that
// round-trips losslessly through the store, and a PNG still of the board for
// quick visual inspection.
package export
