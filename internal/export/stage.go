package export

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Encoder serializes a document into its self-contained form.
type Encoder interface {
	Encode(w io.Writer, doc Document) error
}

// Stage holds mounted export documents while a facility consumes them.
type Stage interface {
	Mount(doc Document, enc Encoder) (string, error)
	Unmount(path string) error
}

// TempStage mounts documents as files in Dir, or the system temp directory when Dir is empty.
type TempStage struct {
	Dir string
}

func (s TempStage) Mount(doc Document, enc Encoder) (path string, err error) {
	f, err := os.CreateTemp(s.Dir, "catalog-export-*.html")
	if err != nil {
		return "", fmt.Errorf("create staged document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := enc.Encode(f, doc); err != nil {
		return "", fmt.Errorf("encode staged document: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staged document: %w", err)
	}
	return f.Name(), nil
}

func (s TempStage) Unmount(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove staged document: %w", err)
	}
	return nil
}
