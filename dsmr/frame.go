package dsmr

import "strings"

// assembler accumulates serial lines into raw telegram payloads.
//
// A telegram starts at a '/' identification line and ends at a '!' terminator line. The
// returned payload excludes the leading '/' character and the whole terminator line
// (the meter's own checksum is not carried forward - the relay computes a fresh one
// when framing).
type assembler struct {
	buf        []byte
	inTelegram bool
}

// Feed consumes one serial line (with its line ending intact) and returns a completed
// raw telegram payload, or nil if the telegram is not complete yet.
func (a *assembler) Feed(line string) []byte {
	switch {
	case strings.HasPrefix(line, "/"):
		// identification line: a new telegram starts, drop any partial one
		a.buf = append(a.buf[:0], line[1:]...)
		a.inTelegram = true

	case strings.HasPrefix(line, "!"):
		if !a.inTelegram {
			return nil
		}
		a.inTelegram = false
		return a.buf

	case a.inTelegram:
		a.buf = append(a.buf, line...)
		if len(a.buf) > maxTelegramSize {
			// missed the terminator somewhere, resynchronise on the next '/' line
			a.inTelegram = false
		}
	}
	return nil
}
