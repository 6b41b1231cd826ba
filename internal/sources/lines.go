package sources

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 10 * 1024 * 1024

// ScanLines calls fn for every line of r with the trailing newline and
// carriage return removed and invalid UTF-8 dropped. Line numbers start at 1.
// It stops early when ctx is cancelled or fn returns an error.
func ScanLines(ctx context.Context, r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := strings.ToValidUTF8(strings.TrimRight(scanner.Text(), "\r"), "")
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan line %d: %w", lineNo+1, err)
	}
	return nil
}
