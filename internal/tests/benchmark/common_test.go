package benchmark

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FileSizes defines the served file sizes for benchmarking.
var FileSizes = []int{1 << 10, 64 << 10, 1 << 20}

// discardLogger drops every record so logging cost stays out of the numbers.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// writeRoot creates a document root holding one file per size, named by size.
func writeRoot(b *testing.B, sizes []int) string {
	b.Helper()
	root := b.TempDir()
	for _, size := range sizes {
		data := make([]byte, size)
		if _, err := rand.Read(data); err != nil {
			b.Fatalf("rand.Read: %v", err)
		}
		if err := os.WriteFile(filepath.Join(root, fileName(size)), data, 0o644); err != nil {
			b.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

func fileName(size int) string {
	return fmt.Sprintf("file-%d.bin", size)
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithFileSizes runs a benchmark function with various file sizes.
func runWithFileSizes(b *testing.B, sizes []int, benchFn func(b *testing.B, size int)) {
	for _, size := range sizes {
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
