// Package outwriter has output and writer logic.
//
// Every view dispatches on the configured output mode: a human-readable
// table by default, or CSV, JSON and parquet for machine consumption.
package outwriter

import (
	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// detailAddressWidth bounds the address column in detail tables.
const detailAddressWidth = 25

// isTextOutput reports whether the config asks for the human-readable view.
func isTextOutput(cfg *contract.Config) bool {
	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut, schema.ParquetOut:
		return false
	default:
		return true
	}
}
