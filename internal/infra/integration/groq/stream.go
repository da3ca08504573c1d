package groq

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var discardedFrames = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "chat_stream_discarded_frames_total",
		Help: "Complete event-stream frames dropped because they failed to parse",
	},
)

const dataPrefix = "data:"
const doneSentinel = "[DONE]"

// streamReader re-frames the upstream server-sent-event stream into plain
// incremental text. It cycles through three states: pull a chunk from
// upstream, buffer the trailing partial line, emit the text deltas of every
// complete `data:` line. A line without its newline yet is incomplete and
// stays buffered for the next chunk; a complete line that fails to parse is
// malformed and is discarded (counted, never surfaced).
type streamReader struct {
	upstream io.ReadCloser
	residual []byte // partial line carried across upstream reads
	pending  []byte // decoded text not yet handed to the caller
	buf      []byte
	done     bool
}

func newStreamReader(upstream io.ReadCloser) *streamReader {
	return &streamReader{
		upstream: upstream,
		buf:      make([]byte, 4096),
	}
}

func (s *streamReader) Read(p []byte) (int, error) {
	for {
		if len(s.pending) > 0 {
			n := copy(p, s.pending)
			s.pending = s.pending[n:]
			return n, nil
		}
		if s.done {
			return 0, io.EOF
		}

		n, err := s.upstream.Read(s.buf)
		if n > 0 {
			s.residual = append(s.residual, s.buf[:n]...)
			s.consumeLines()
		}
		if err != nil {
			// Whatever is left in residual never got its newline; it is an
			// incomplete fragment, not content.
			s.done = true
			if err != io.EOF {
				return 0, err
			}
		}
	}
}

// consumeLines processes every complete line sitting in the residual
// buffer, leaving the trailing partial line in place.
func (s *streamReader) consumeLines() {
	for {
		idx := bytes.IndexByte(s.residual, '\n')
		if idx < 0 {
			return
		}
		line := string(bytes.TrimRight(s.residual[:idx], "\r"))
		s.residual = s.residual[idx+1:]
		s.consumeLine(line)
		if s.done {
			return
		}
	}
}

func (s *streamReader) consumeLine(line string) {
	if !strings.HasPrefix(line, dataPrefix) {
		// Envelope bytes (event:, id:, keep-alive blanks). Dropped.
		return
	}

	data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if data == "" {
		return
	}
	if data == doneSentinel {
		s.done = true
		return
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		discardedFrames.Inc()
		return
	}
	if chunk.Error != nil {
		// In-band error frame: the upstream aborted mid-stream. Nothing
		// more is coming, end the downstream stream cleanly.
		s.done = true
		return
	}
	if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
		s.pending = append(s.pending, chunk.Choices[0].Delta.Content...)
	}
}

// Close releases the upstream body. Safe to call while the upstream is
// still producing; the connection is torn down instead of drained.
func (s *streamReader) Close() error {
	s.done = true
	return s.upstream.Close()
}
