package dup

import "strings"

// Comparison constants
const (
	DefaultChunkSize   = 1024 * 1024 // Bytes read from each file per comparison step (1 MiB)
	DefaultChunkSizeHR = "1M"        // DefaultChunkSize as written in the config file
)

// Output formats
const (
	FormatHuman  = "human"
	FormatJSON   = "json"
	FormatFdupes = "fdupes"
)

// Config section names
const (
	SectionCompare = "compare"
	SectionScan    = "scan"
	SectionOutput  = "output"
	SectionVerbose = "verbose"
	SectionRemove  = "remove"
)

// Verbose levels
const (
	VerboseQuiet  = 0 // warnings and errors only
	VerboseBasic  = 1 // per-phase summaries
	VerboseDetail = 2 // per-directory and per-match detail
	VerboseTrace  = 3 // function entry/exit and every pair
)

// Debug flag names understood by IsDebugEnabled
const (
	DebugScan    = "scan"    // trace every directory entry visited
	DebugPairs   = "pairs"   // trace every pair handed to the resolver
	DebugCompare = "compare" // trace chunk level comparison
	DebugRemove  = "remove"  // trace removals
)

// iovMax is the Linux IOV_MAX; writev calls are chunked to this many vectors
const iovMax = 1024

// ValidFormats lists the supported output formats in display order
var ValidFormats = []string{FormatHuman, FormatJSON, FormatFdupes}

// NormaliseFormat lower-cases and trims an output format name
func NormaliseFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
