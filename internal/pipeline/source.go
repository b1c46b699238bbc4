package pipeline

import (
	"context"
	"os"

	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

// Source yields trace samples in order. Next returns io.EOF when a finite
// source is exhausted.
type Source interface {
	Next(ctx context.Context) (trace.Sample, error)
	Close() error
}

// FileSource reads samples from a trace file.
type FileSource struct {
	file   *os.File
	reader *trace.Reader
}

// NewFileSource opens path for reading.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{file: f, reader: trace.NewReader(f)}, nil
}

func (s *FileSource) Next(_ context.Context) (trace.Sample, error) {
	return s.reader.Next()
}

func (s *FileSource) Close() error {
	return s.file.Close()
}
