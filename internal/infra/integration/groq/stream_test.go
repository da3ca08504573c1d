package groq

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chunkedReader hands out exactly one predefined chunk per Read call, so a
// test controls where the upstream splits the byte stream.
type chunkedReader struct {
	chunks []string
	closed bool
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if c.chunks[0] == "" {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *chunkedReader) Close() error {
	c.closed = true
	return nil
}

func readAll(t *testing.T, chunks []string) string {
	t.Helper()
	s := newStreamReader(&chunkedReader{chunks: chunks})
	defer s.Close()
	out, err := io.ReadAll(s)
	assert.NoError(t, err)
	return string(out)
}

func TestStreamReaderExtractsDeltas(t *testing.T) {
	got := readAll(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
			"data: [DONE]\n\n",
	})

	assert.Equal(t, "Hello", got)
}

func TestStreamReaderReassemblesLineSplitAcrossChunks(t *testing.T) {
	got := readAll(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\ndata: {\"choices\":[{\"delta\":{\"cont",
		"ent\":\"lo \"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n",
		"data: [DONE]\n",
	})

	assert.Equal(t, "Hello world", got)
}

func TestStreamReaderDropsProtocolEnvelope(t *testing.T) {
	got := readAll(t, []string{
		"event: message\n",
		": keep-alive\n",
		"\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n",
		"data: [DONE]\n",
	})

	assert.Equal(t, "ok", got)
}

func TestStreamReaderDiscardsMalformedCompleteLines(t *testing.T) {
	got := readAll(t, []string{
		"data: {this is not json}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"still fine\"}}]}\n",
		"data: [DONE]\n",
	})

	assert.Equal(t, "still fine", got)
}

func TestStreamReaderIgnoresTrailingPartialLineAtEOF(t *testing.T) {
	got := readAll(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"done\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"cont",
	})

	assert.Equal(t, "done", got)
}

func TestStreamReaderStopsAtDoneSentinel(t *testing.T) {
	got := readAll(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"before\"}}]}\n" +
			"data: [DONE]\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"after\"}}]}\n",
	})

	assert.Equal(t, "before", got)
}

func TestStreamReaderStopsOnInBandErrorFrame(t *testing.T) {
	got := readAll(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n",
		"data: {\"error\":{\"message\":\"model overloaded\"}}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"never seen\"}}]}\n",
	})

	assert.Equal(t, "partial", got)
}

func TestStreamReaderCloseReleasesUpstream(t *testing.T) {
	upstream := &chunkedReader{chunks: []string{"data: [DONE]\n"}}
	s := newStreamReader(upstream)

	assert.NoError(t, s.Close())
	assert.True(t, upstream.closed)

	// After Close the stream reports EOF instead of pulling upstream.
	n, err := s.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}
