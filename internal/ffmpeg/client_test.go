package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func setHelperCommand(t *testing.T, mode string) *[]string {
	t.Helper()
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFMPEG_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return &capturedArgs
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestFetchRequiresStreamURL(t *testing.T) {
	cli := NewCLI()
	err := cli.Fetch(context.Background(), FetchRequest{OutputPath: "/tmp/out.mp4"}, nil)
	if err == nil {
		t.Fatal("expected error when stream url is empty")
	}
}

func TestFetchRequiresOutputPath(t *testing.T) {
	cli := NewCLI()
	err := cli.Fetch(context.Background(), FetchRequest{StreamURL: "https://vod.example.is/x.m3u8"}, nil)
	if err == nil {
		t.Fatal("expected error when output path is empty")
	}
}

func TestFetchSuccessReportsProgress(t *testing.T) {
	args := setHelperCommand(t, "success")

	cli := NewCLI()
	out := filepath.Join(t.TempDir(), "episode.mp4")

	var updates []ProgressUpdate
	err := cli.Fetch(context.Background(), FetchRequest{
		StreamURL:  "https://vod.example.is/stream_2.m3u8",
		OutputPath: out,
	}, func(update ProgressUpdate) {
		updates = append(updates, update)
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 progress updates, got %d", len(updates))
	}
	if updates[0].OutTime != 5*time.Second {
		t.Fatalf("expected out time 5s, got %s", updates[0].OutTime)
	}
	if updates[1].TotalSize != 2048000 {
		t.Fatalf("expected total size 2048000, got %d", updates[1].TotalSize)
	}
	if updates[1].Speed != "2.5x" {
		t.Fatalf("expected speed 2.5x, got %q", updates[1].Speed)
	}

	if findArg(*args, "-codec:v") == -1 || findArg(*args, "-progress") == -1 {
		t.Fatalf("expected stream copy and progress flags, got %v", *args)
	}
	if findArg(*args, "-c:s") != -1 {
		t.Fatalf("unexpected subtitle flags without subtitle url: %v", *args)
	}
}

func TestFetchMuxesSubtitles(t *testing.T) {
	args := setHelperCommand(t, "success")

	cli := NewCLI()
	err := cli.Fetch(context.Background(), FetchRequest{
		StreamURL:   "https://vod.example.is/stream_2.m3u8",
		SubtitleURL: "https://vod.example.is/subs/is.vtt",
		OutputPath:  filepath.Join(t.TempDir(), "episode.mp4"),
	}, nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	idx := findArg(*args, "-c:s")
	if idx == -1 || (*args)[idx+1] != "mov_text" {
		t.Fatalf("expected subtitle codec args, got %v", *args)
	}
	if findArg(*args, "https://vod.example.is/subs/is.vtt") == -1 {
		t.Fatalf("expected subtitle input, got %v", *args)
	}
}

func TestFetchFailureRemovesPartialOutput(t *testing.T) {
	setHelperCommand(t, "failure")

	out := filepath.Join(t.TempDir(), "episode.mp4")
	if err := os.WriteFile(out, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := NewCLI()
	err := cli.Fetch(context.Background(), FetchRequest{
		StreamURL:  "https://vod.example.is/stream_2.m3u8",
		OutputPath: out,
	}, nil)
	if err == nil {
		t.Fatal("expected fetch failure error")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("partial output not removed: %v", statErr)
	}
}

func TestProbeFailure(t *testing.T) {
	setHelperCommand(t, "failure")
	cli := NewCLI()
	if err := cli.Probe(context.Background(), "/tmp/file.mp4"); err == nil {
		t.Fatal("expected probe failure")
	}
}

func TestProbeSuccess(t *testing.T) {
	setHelperCommand(t, "quiet")
	cli := NewCLI()
	if err := cli.Probe(context.Background(), "/tmp/file.mp4"); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		fmt.Println("out_time_us=5000000")
		fmt.Println("total_size=1024000")
		fmt.Println("speed=1.9x")
		fmt.Println("progress=continue")
		fmt.Println("out_time_us=10000000")
		fmt.Println("total_size=2048000")
		fmt.Println("speed=2.5x")
		fmt.Println("progress=end")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "Server returned 404 Not Found")
		os.Exit(1)
	case "quiet":
		os.Exit(0)
	default:
		os.Exit(0)
	}
}

func findArg(args []string, target string) int {
	for i, arg := range args {
		if arg == target {
			return i
		}
	}
	return -1
}
