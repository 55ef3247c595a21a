package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// WriteFileAtomic replaces the file at path with data, readers never observe a partially written file
func WriteFileAtomic(path string, data []byte) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// ReadFloatsFromFile reads one float value per line from the given file.
// Empty lines and lines starting with # are skipped.
func ReadFloatsFromFile(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadFloats(file)
}

// ReadFloats reads one float value per line from the given reader.
// Empty lines and lines starting with # are skipped.
func ReadFloats(reader io.Reader) ([]float64, error) {
	var result []float64
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) <= 0 || strings.HasPrefix(line, "#") {
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		result = append(result, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
