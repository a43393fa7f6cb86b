package ipc

import (
	"testing"

	"github.com/google/uuid"
)

func benchChannel(b *testing.B) *Channel {
	b.Helper()
	ch, err := Create("trichroma-bench-" + uuid.NewString()[:8])
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = ch.Destroy() })
	return ch
}

// BenchmarkPublishConsume measures one uncontended hand-off through
// the ring, the protocol's hot path.
func BenchmarkPublishConsume(b *testing.B) {
	ch := benchChannel(b)
	cand := Candidate{{0, 1}, {2, 3}, {4, 5}, {6, 7}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ch.Publish(cand); err != nil {
			b.Fatal(err)
		}
		if _, err := ch.Consume(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSemaphoreAcquireRelease(b *testing.B) {
	name := "trichroma-bench-" + uuid.NewString()[:8]
	s, err := createSemaphore(name, 1)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		_ = s.close()
		if path, err := objectPath(name); err == nil {
			_ = unlink(path)
		}
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Acquire(); err != nil {
			b.Fatal(err)
		}
		if err := s.Release(); err != nil {
			b.Fatal(err)
		}
	}
}
