package stream_test

import (
	"context"
	"io"
	"testing"

	"github.com/Hanifalm/TG-FileStreamBot/internal/backendtest"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/stream"
)

// Benchmark_ParseRange benchmarks range header parsing
func Benchmark_ParseRange(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := stream.ParseRange("bytes=500000-1500000", 10_000_000); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark_Plan benchmarks chunk plan computation
func Benchmark_Plan(b *testing.B) {
	spec := stream.RangeSpec{From: 500_000, Until: 1_500_000, Explicit: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stream.Plan(spec, stream.DefaultChunkSize)
	}
}

// Benchmark_Sequencer_Read benchmarks streaming a full object through the sequencer
func Benchmark_Sequencer_Read(b *testing.B) {
	const size = 1 << 20
	client := backendtest.NewMockClient(0, "bot1")
	obj := backendtest.PatternObject(size, "application/octet-stream", "blob.bin")
	client.AddObject("tok", obj)

	session, err := client.NewSession(context.Background())
	if err != nil {
		b.Fatalf("failed to create session: %v", err)
	}

	spec := stream.RangeSpec{From: 0, Until: size - 1, Explicit: true}
	plan := stream.Plan(spec, 64*1024)

	b.SetBytes(size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq := stream.NewSequencer(context.Background(), session, "tok", plan)
		n, err := io.Copy(io.Discard, seq)
		if err != nil {
			b.Fatal(err)
		}
		if n != size {
			b.Fatalf("copied %d bytes, want %d", n, size)
		}
	}
}

// Benchmark_Sequencer_Read_Interior benchmarks an unaligned interior range
func Benchmark_Sequencer_Read_Interior(b *testing.B) {
	const size = 1 << 20
	client := backendtest.NewMockClient(0, "bot1")
	obj := backendtest.PatternObject(size, "application/octet-stream", "blob.bin")
	client.AddObject("tok", obj)

	session, err := client.NewSession(context.Background())
	if err != nil {
		b.Fatalf("failed to create session: %v", err)
	}

	spec := stream.RangeSpec{From: 12_345, Until: 900_000, Explicit: true}
	plan := stream.Plan(spec, 64*1024)

	b.SetBytes(spec.Length())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq := stream.NewSequencer(context.Background(), session, "tok", plan)
		if _, err := io.Copy(io.Discard, seq); err != nil {
			b.Fatal(err)
		}
	}
}
