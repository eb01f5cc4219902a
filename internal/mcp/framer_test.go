// ABOUTME: Tests for stream reassembly under arbitrary chunk boundaries
// ABOUTME: Covers both framing modes, multi-message chunks, and byte-length framing

package mcp

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lengthPrefixed(body string) []byte {
	return []byte(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body))
}

func drain(f *Framer) []string {
	var out []string
	for {
		body, ok := f.Next()
		if !ok {
			return out
		}
		out = append(out, string(body))
	}
}

func TestFramer_LengthPrefixedSingleChunk(t *testing.T) {
	f := &Framer{}
	f.Append(lengthPrefixed(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))

	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, got[0])
}

func TestFramer_ArbitrarySplitPoints(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":42,"method":"tools/list"}`
	frame := lengthPrefixed(body)

	// Splitting the frame at every possible boundary must yield the same body.
	for split := 1; split < len(frame); split++ {
		f := &Framer{}
		f.Append(frame[:split])
		f.Append(frame[split:])

		got := drain(f)
		require.Len(t, got, 1, "split at %d", split)
		assert.Equal(t, body, got[0], "split at %d", split)
	}
}

func TestFramer_ByteWiseDelivery(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":7,"method":"ping"}`
	frame := lengthPrefixed(body)

	f := &Framer{}
	var got []string
	for _, b := range frame {
		f.Append([]byte{b})
		got = append(got, drain(f)...)
	}
	require.Len(t, got, 1)
	assert.Equal(t, body, got[0])
}

func TestFramer_TwoMessagesOneChunk(t *testing.T) {
	first := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	second := `{"jsonrpc":"2.0","id":2,"method":"ping"}`

	f := &Framer{}
	f.Append(append(lengthPrefixed(first), lengthPrefixed(second)...))

	got := drain(f)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
}

func TestFramer_MessagePlusPartialNext(t *testing.T) {
	first := `{"id":1}`
	second := `{"id":2}`
	full := append(lengthPrefixed(first), lengthPrefixed(second)...)

	f := &Framer{}
	f.Append(full[:len(lengthPrefixed(first))+5])

	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, first, got[0])

	f.Append(full[len(lengthPrefixed(first))+5:])
	got = drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, second, got[0])
}

func TestFramer_CaseInsensitiveHeader(t *testing.T) {
	body := `{"id":1}`
	f := &Framer{}
	f.Append([]byte(fmt.Sprintf("content-length: %d\r\n\r\n%s", len(body), body)))

	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, body, got[0])
}

func TestFramer_LengthIsBytesNotRunes(t *testing.T) {
	body := `{"title":"café ☕"}`
	raw := []byte(body)
	f := &Framer{}
	f.Append([]byte(fmt.Sprintf("Content-Length: %d\r\n\r\n", len(raw))))
	f.Append(raw)

	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, body, got[0])
}

func TestFramer_PartialBodyWaits(t *testing.T) {
	f := &Framer{}
	f.Append([]byte("Content-Length: 100\r\n\r\n{\"partial\":"))

	_, ok := f.Next()
	assert.False(t, ok, "incomplete body must not be extracted")
}

func TestFramer_PartialHeaderWaits(t *testing.T) {
	f := &Framer{}
	f.Append([]byte("Content-Length: 8\r\n"))

	_, ok := f.Next()
	assert.False(t, ok, "header without terminator must stay buffered")

	f.Append([]byte("\r\n{\"id\":1}"))
	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, `{"id":1}`, got[0])
}

func TestFramer_LineDelimitedFallback(t *testing.T) {
	f := &Framer{}
	f.Append([]byte("{\"id\":1}\n\n  {\"id\":2}  \n"))

	got := drain(f)
	require.Len(t, got, 2)
	assert.Equal(t, `{"id":1}`, got[0])
	assert.Equal(t, `{"id":2}`, got[1])
}

func TestFramer_LineDelimitedCRLF(t *testing.T) {
	f := &Framer{}
	f.Append([]byte("{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"ping\"}\r\n\r\n"))
	f.Append([]byte("{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"ping\"}\r\n"))

	got := drain(f)
	require.Len(t, got, 2)
	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, got[0])
	assert.Equal(t, `{"jsonrpc":"2.0","id":2,"method":"ping"}`, got[1])
}

func TestFramer_CRLFBlankLinesBetweenMessages(t *testing.T) {
	f := &Framer{}
	f.Append([]byte("{\"id\":1}\r\n\r\n\r\n{\"id\":2}\r\n"))

	got := drain(f)
	require.Len(t, got, 2)
	assert.Equal(t, `{"id":1}`, got[0])
	assert.Equal(t, `{"id":2}`, got[1])
}

func TestFramer_LineWithoutNewlineWaits(t *testing.T) {
	f := &Framer{}
	f.Append([]byte(`{"id":1}`))

	_, ok := f.Next()
	assert.False(t, ok)

	f.Append([]byte("\n"))
	got := drain(f)
	require.Len(t, got, 1)
	assert.Equal(t, `{"id":1}`, got[0])
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"title":"café"}`)
	require.NoError(t, WriteFrame(&buf, payload))

	want := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(payload), payload)
	assert.Equal(t, want, buf.String())
}
