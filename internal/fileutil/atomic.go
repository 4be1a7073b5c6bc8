// Package fileutil provides file system utilities.
package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteValuesAtomic writes values to filename, one decimal value per line.
// Readers see either no file or the complete file, never a partial dump.
func WriteValuesAtomic(filename string, values []uint32, perm os.FileMode) error {
	return writeAtomic(filename, perm, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		buf := make([]byte, 0, 16)
		for _, v := range values {
			buf = strconv.AppendUint(buf[:0], uint64(v), 10)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}

// writeAtomic streams content into a temporary file in the target directory
// and renames it over filename once it is synced.
func writeAtomic(filename string, perm os.FileMode, write func(io.Writer) error) error {
	// Same directory keeps the rename on one filesystem
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmpFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
