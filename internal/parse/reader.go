package parse

import (
	"bufio"
	"fmt"
	"os"
)

const maxLineSize = 64 * 1024 * 1024 // 64MB

// FileReadError reports a transcript that could not be opened or read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("Failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ReadStats counts what a read pass saw.
type ReadStats struct {
	Lines     int
	Records   int
	Malformed int
}

// ReadRecords streams the records of a JSONL file to fn together with their
// 1-based line number. Malformed lines are counted and skipped. Open and
// read failures are returned as *FileReadError.
func ReadRecords(filePath string, fn func(lineNum int, rec *Record)) (ReadStats, error) {
	var stats ReadStats

	f, err := os.Open(filePath)
	if err != nil {
		return stats, &FileReadError{Path: filePath, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++
		rec, err := DecodeRecord(scanner.Bytes())
		if err != nil {
			stats.Malformed++
			continue
		}
		stats.Records++
		fn(stats.Lines, rec)
	}

	if err := scanner.Err(); err != nil {
		return stats, &FileReadError{Path: filePath, Err: err}
	}
	return stats, nil
}
