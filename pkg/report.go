package dup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"syscall"
	"unsafe"

	"github.com/google/vectorio"
)

// Report is the machine readable form of a DuplicateMap
type Report struct {
	Count      int              `json:"count"`
	Duplicates []DuplicatePair  `json:"duplicates"`
	Groups     []DuplicateGroup `json:"groups"`
}

// NewReport builds a Report from dm
func NewReport(dm *DuplicateMap) *Report {
	return &Report{
		Count:      dm.Len(),
		Duplicates: dm.Pairs(),
		Groups:     dm.Groups(),
	}
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	if slices.Contains(ValidFormats, NormaliseFormat(format)) {
		return nil
	}
	return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, format, strings.Join(ValidFormats, ", "))
}

// WriteReport writes dm in a machine readable format. The human format is rendered by the CLI.
func WriteReport(w io.Writer, dm *DuplicateMap, format string) error {
	switch NormaliseFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewReport(dm)); err != nil {
			return fmt.Errorf("failed to write json report: %w", err)
		}
		return nil
	case FormatFdupes:
		return writeLines(w, fdupesLines(dm))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// fdupesLines lays out each group as its original followed by its duplicates, with a blank
// line between groups
func fdupesLines(dm *DuplicateMap) [][]byte {
	var lines [][]byte
	for i, g := range dm.Groups() {
		if i > 0 {
			lines = append(lines, []byte("\n"))
		}
		lines = append(lines, []byte(g.Original+"\n"))
		for _, d := range g.Duplicates {
			lines = append(lines, []byte(d+"\n"))
		}
	}
	return lines
}

// writeLines writes lines with writev(2) when w is an *os.File and falls back to plain
// writes otherwise, or for whatever a short or failed writev left behind
func writeLines(w io.Writer, lines [][]byte) error {
	written := 0
	if f, ok := w.(*os.File); ok {
		written = writevLines(f, lines)
	}

	for _, line := range lines {
		if written >= len(line) {
			written -= len(line)
			continue
		}
		if _, err := w.Write(line[written:]); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		written = 0
	}
	return nil
}

// writevLines writes as much as one pass of writev calls will take and returns the byte count
func writevLines(f *os.File, lines [][]byte) int {
	iovecs := make([]syscall.Iovec, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		iov := syscall.Iovec{Base: (*byte)(unsafe.Pointer(&line[0]))}
		iov.SetLen(len(line))
		iovecs = append(iovecs, iov)
	}

	total := 0
	for offset := 0; offset < len(iovecs); offset += iovMax {
		end := offset + iovMax
		if end > len(iovecs) {
			end = len(iovecs)
		}

		expected := 0
		for _, iov := range iovecs[offset:end] {
			expected += int(iov.Len)
		}

		nw, err := vectorio.WritevRaw(f.Fd(), iovecs[offset:end])
		if err != nil {
			VerboseLog(VerboseDetail, "writev failed, falling back to write: %v", err)
			if nw > 0 {
				total += nw
			}
			return total
		}
		total += nw
		if nw != expected {
			return total
		}
	}
	return total
}
