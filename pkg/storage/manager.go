package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager handles writing export artifacts into the output directory
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// SaveDocument writes a document produced by the write callback. The data
// goes to a temporary file first and is renamed into place only when the
// callback succeeds, so a failed run never leaves a partial output file.
// Returns the final path.
func (m *Manager) SaveDocument(name string, write func(io.Writer) error) (string, error) {
	filename := filepath.Join(m.outputDir, name)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return filename, nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}
