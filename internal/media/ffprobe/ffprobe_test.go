package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "data"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestDurationFallsBackToAudioStream(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "12.5"},
			{CodecType: "audio", Duration: "14.0"},
		},
	}
	if got := result.DurationSeconds(); got != 14.0 {
		t.Fatalf("duration = %v, want 14", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`{"streams":[{"index":0,"codec_name":"mp3","codec_type":"audio","sample_rate":"24000","channels":1}],"format":{"duration":"42.120000"}}`)
	result, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Streams[0].CodecName != "mp3" || result.DurationSeconds() != 42.12 {
		t.Fatalf("result = %+v", result)
	}
	if _, err := Decode([]byte("nope")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAudioDurationWithStubBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"streams\":[{\"codec_type\":\"audio\"}],\"format\":{\"duration\":\"5.5\"}}'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := AudioDuration(context.Background(), stub, "narration.mp3")
	if err != nil {
		t.Fatalf("AudioDuration: %v", err)
	}
	if got != 5.5 {
		t.Fatalf("duration = %v, want 5.5", got)
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
