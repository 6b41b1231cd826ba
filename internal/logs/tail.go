package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	maxLineBytes = 1024 * 1024
	pollInterval = 250 * time.Millisecond
)

// TailOptions controls a Tail call.
type TailOptions struct {
	// Offset is the byte position to read from. A negative offset returns
	// the last Limit matching lines instead.
	Offset int64
	Limit  int
	// Follow waits up to Wait for new lines when none are available.
	Follow bool
	Wait   time.Duration
	Filter Filter
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads matching lines from the log file at path. A missing file yields
// no lines and offset zero.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	var (
		result TailResult
		err    error
	)
	if opts.Offset < 0 {
		result, err = lastLines(path, opts.Limit, opts.Filter)
	} else {
		result, err = linesFrom(path, opts.Offset, opts.Filter)
	}
	if err != nil || !opts.Follow || opts.Wait <= 0 || len(result.Lines) > 0 {
		return result, err
	}
	return poll(ctx, path, result.Offset, opts.Wait, opts.Filter)
}

func lastLines(path string, limit int, filter Filter) (TailResult, error) {
	if limit <= 0 {
		info, err := statLog(path)
		if err != nil || info == nil {
			return TailResult{}, err
		}
		return TailResult{Offset: info.Size()}, nil
	}

	ring := make([]string, 0, limit)
	start := 0
	offset, err := scan(path, 0, filter, func(line string) {
		if len(ring) < limit {
			ring = append(ring, line)
			return
		}
		ring[start] = line
		start = (start + 1) % limit
	})
	if err != nil {
		return TailResult{}, err
	}
	lines := append(ring[start:len(ring):len(ring)], ring[:start]...)
	return TailResult{Lines: lines, Offset: offset}, nil
}

func linesFrom(path string, offset int64, filter Filter) (TailResult, error) {
	var lines []string
	end, err := scan(path, offset, filter, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return TailResult{Offset: offset}, err
	}
	return TailResult{Lines: lines, Offset: end}, nil
}

func poll(ctx context.Context, path string, offset int64, wait time.Duration, filter Filter) (TailResult, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		result, err := linesFrom(path, offset, filter)
		if err != nil || len(result.Lines) > 0 || time.Now().After(deadline) {
			return result, err
		}
		offset = result.Offset

		select {
		case <-ctx.Done():
			return TailResult{Offset: offset}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// scan calls visit for every line matching filter from offset to the end of
// the file and returns the offset reached. Offsets past the end of the file
// (after truncation or rotation) restart from the current end.
func scan(path string, offset int64, filter Filter, visit func(string)) (int64, error) {
	info, err := statLog(path)
	if err != nil || info == nil {
		return 0, err
	}
	if offset > info.Size() {
		offset = info.Size()
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if line := scanner.Text(); filter.Match(line) {
			visit(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read log file: %w", err)
	}
	end, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("determine log offset: %w", err)
	}
	return end, nil
}

// statLog returns nil info for a missing file.
func statLog(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return info, nil
}
