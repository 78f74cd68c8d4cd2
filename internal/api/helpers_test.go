package api

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func testLogger(b *safeBuffer) zerolog.Logger {
	return zerolog.New(b).Level(zerolog.DebugLevel)
}
