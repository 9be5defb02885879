package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures ffmpeg progress events parsed from -progress output.
type ProgressUpdate struct {
	OutTime   time.Duration
	TotalSize int64
	Speed     string
}

// FetchRequest describes one media transfer.
type FetchRequest struct {
	StreamURL   string // media playlist of the selected variant
	SubtitleURL string // optional subtitle track muxed into the output
	OutputPath  string
}

// Fetcher transfers a stream to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest, progress func(ProgressUpdate)) error
}

// Prober verifies that a finished file decodes cleanly.
type Prober interface {
	Probe(ctx context.Context, path string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Fetch launches ffmpeg to stream-copy the variant into the output path,
// muxing the subtitle track when one is given. The transfer is remux only,
// no re-encode. On any failure the partial output file is removed so a
// half-written transfer can never be mistaken for a completed one.
func (c *CLI) Fetch(ctx context.Context, req FetchRequest, progress func(ProgressUpdate)) error {
	if req.StreamURL == "" {
		return errors.New("stream url required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}

	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}
	args = append(args, "-i", req.StreamURL)
	if req.SubtitleURL != "" {
		args = append(args, "-i", req.SubtitleURL)
	}
	args = append(args, "-map", "0:v:0", "-map", "0:a:0")
	if req.SubtitleURL != "" {
		// Subtitle handling needs an explicit codec; everything else copies.
		args = append(args, "-map", "1:s:0", "-c:s", "mov_text")
	}
	args = append(args, "-codec:v", "copy", "-codec:a", "copy")
	args = append(args, "-progress", "pipe:1", "-nostats")
	args = append(args, req.OutputPath)

	cmd := commandContext(ctx, c.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	update := ProgressUpdate{}
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil {
				update.OutTime = time.Duration(us) * time.Microsecond
			}
		case "total_size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				update.TotalSize = size
			}
		case "speed":
			update.Speed = strings.TrimSpace(value)
		case "progress":
			if progress != nil {
				progress(update)
			}
		}
	}

	waitErr := cmd.Wait()
	if scanErr := scanner.Err(); waitErr == nil && scanErr != nil {
		waitErr = fmt.Errorf("read ffmpeg output: %w", scanErr)
	}
	if waitErr != nil {
		_ = os.Remove(req.OutputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("ffmpeg fetch failed: %w: %s", waitErr, firstLine(detail))
		}
		return fmt.Errorf("ffmpeg fetch failed: %w", waitErr)
	}
	return nil
}

// Probe decodes the file's second stream to null output; a broken or
// truncated transfer fails the decode. The file is left in place either way.
func (c *CLI) Probe(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("path required")
	}
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-i", path, "-map", "0:1", "-f", "null", "-"}
	cmd := commandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("integrity check failed: %w: %s", err, firstLine(detail))
		}
		return fmt.Errorf("integrity check failed: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

var (
	_ Fetcher = (*CLI)(nil)
	_ Prober  = (*CLI)(nil)
)
