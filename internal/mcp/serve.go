// ABOUTME: Stdio serve loop: one reader owns the frame buffer, one worker dispatches
// ABOUTME: Messages are handled strictly in arrival order; ingestion never blocks on a handler

package mcp

import (
	"context"
	"encoding/json"
	"io"
)

// Serve reads frames from r until EOF or context cancellation, dispatching
// each complete message in arrival order and writing framed responses to w.
//
// The framer buffer is owned exclusively by the reader goroutine; complete
// bodies flow through an unbounded FIFO to a single worker, so the handler
// routine is never invoked reentrantly and input keeps accumulating while a
// handler is suspended at I/O.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	incoming := make(chan []byte)
	pending := make(chan []byte)
	done := make(chan struct{})

	// Reader: owns the accumulation buffer.
	go func() {
		defer close(incoming)
		framer := &Framer{}
		chunk := make([]byte, 4096)
		for {
			n, err := r.Read(chunk)
			if n > 0 {
				framer.Append(chunk[:n])
				for {
					body, ok := framer.Next()
					if !ok {
						break
					}
					select {
					case incoming <- body:
					case <-ctx.Done():
						return
					}
				}
			}
			if err != nil {
				if err != io.EOF {
					s.logger.Warn("input stream error", "error", err)
				}
				return
			}
		}
	}()

	// Pump: unbounded FIFO between reader and worker, so a stalled handler
	// never backs pressure up into the read loop.
	go func() {
		defer close(pending)
		var queue [][]byte
		in := incoming
		for in != nil || len(queue) > 0 {
			var out chan []byte
			var next []byte
			if len(queue) > 0 {
				out = pending
				next = queue[0]
			}
			select {
			case body, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				queue = append(queue, body)
			case out <- next:
				queue = queue[1:]
			case <-ctx.Done():
				return
			}
		}
	}()

	// Worker: the only goroutine that dispatches messages or writes output.
	go func() {
		defer close(done)
		for body := range pending {
			resp := s.HandleMessage(ctx, body)
			if resp == nil {
				continue
			}
			payload, err := encodeResponse(resp)
			if err != nil {
				s.logger.Error("encoding response", "error", err)
				continue
			}
			if err := WriteFrame(w, payload); err != nil {
				s.logger.Error("writing response", "error", err)
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", ctx.Err())
		return ctx.Err()
	case <-done:
		s.logger.Info("input stream closed")
		return nil
	}
}

func encodeResponse(resp *Response) ([]byte, error) {
	// A request with id omitted entirely would round-trip as nil RawMessage;
	// HandleMessage never lets those through, but keep the envelope valid.
	if len(resp.ID) == 0 {
		resp.ID = []byte("null")
	}
	return json.Marshal(resp)
}
