package dataset

import (
	"fmt"
	"os"
)

type Source interface {
	Load() (*Dataset, error)
}

type SourceFunc func() (*Dataset, error)

func (f SourceFunc) Load() (*Dataset, error) {
	return f()
}

// FileSource reports ErrNotReady while the file does not exist yet, so a
// consumer can start before the dataset has been built.
type FileSource struct {
	Path string
}

func (s FileSource) Load() (*Dataset, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, ErrNotReady
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(data)
}
