// ABOUTME: Reassembles discrete request bodies from an arbitrarily chunked byte stream
// ABOUTME: Length-prefixed framing preferred, line-delimited fallback; output always length-prefixed

package mcp

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// contentLengthPattern matches the Content-Length header field,
// case-insensitive, anywhere in a frame header.
var contentLengthPattern = regexp.MustCompile(`(?i)content-length:\s*(\d+)`)

const headerSep = "\r\n\r\n"

// Framer accumulates incoming bytes and extracts complete message bodies.
// One Framer exists per server session and is owned by a single goroutine.
type Framer struct {
	buf []byte
}

// Append adds a raw chunk to the accumulation buffer.
func (f *Framer) Append(p []byte) {
	f.buf = append(f.buf, p...)
}

// Next extracts the next complete message body from the buffer. Returns
// (nil, false) when no complete message is buffered yet; callers loop until
// false since one chunk can carry several messages.
func (f *Framer) Next() ([]byte, bool) {
	for {
		sep := bytes.Index(f.buf, []byte(headerSep))
		if sep >= 0 {
			header := f.buf[:sep]
			if m := contentLengthPattern.FindSubmatch(header); m != nil {
				length, err := strconv.Atoi(string(m[1]))
				if err != nil || length < 0 {
					// Unusable header; discard it and keep scanning.
					f.buf = f.buf[sep+len(headerSep):]
					continue
				}
				bodyStart := sep + len(headerSep)
				if len(f.buf) < bodyStart+length {
					// Header seen but body incomplete: leave everything
					// buffered and wait for more input.
					return nil, false
				}
				body := make([]byte, length)
				copy(body, f.buf[bodyStart:bodyStart+length])
				f.buf = f.buf[bodyStart+length:]
				return body, true
			}
			// Blank-line boundary without a Content-Length field: fall
			// through to line-delimited handling of the same bytes.
		}

		nl := bytes.IndexByte(f.buf, '\n')
		if nl < 0 {
			return nil, false
		}
		// Don't consume a line that is actually the start of a
		// length-prefixed frame still waiting for its header terminator.
		if looksLikeHeader(f.buf) {
			return nil, false
		}
		line := bytes.TrimSpace(f.buf[:nl])
		f.buf = f.buf[nl+1:]
		if len(line) == 0 {
			continue
		}
		return line, true
	}
}

// looksLikeHeader reports whether the buffer starts with a Content-Length
// header whose blank-line terminator has not arrived yet. Such bytes must
// stay buffered rather than be misread as a line-delimited message.
func looksLikeHeader(buf []byte) bool {
	if bytes.Contains(buf, []byte(headerSep)) {
		return false
	}
	nl := bytes.IndexByte(buf, '\n')
	if nl < 0 {
		return false
	}
	return contentLengthPattern.Match(buf[:nl])
}

// WriteFrame writes payload to w in length-prefixed form. The declared
// length is the encoded byte count, not the character count.
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d%s", len(payload), headerSep); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
