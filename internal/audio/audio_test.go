package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := make([]byte, 32000) // 1s of 16kHz mono
	wav := EncodeWAV(pcm, 16000, 1)

	if len(wav) != WAVHeaderSize+len(pcm) {
		t.Fatalf("len = %d", len(wav))
	}
	if !IsWAV(wav) {
		t.Fatal("IsWAV = false")
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d", got)
	}
	if d := Duration(wav); d != 1 {
		t.Errorf("Duration = %v, want 1", d)
	}
}

func TestEnsureWAV(t *testing.T) {
	wav := EncodeWAV([]byte{1, 2, 3, 4}, 8000, 2)
	if got := EnsureWAV(wav, 16000, 1); &got[0] != &wav[0] {
		t.Error("existing WAV should be returned unchanged")
	}
	if got := EnsureWAV(nil, 16000, 1); got != nil {
		t.Error("empty input should stay empty")
	}
	if got := EnsureWAV([]byte{9, 9}, 16000, 1); !IsWAV(got) || len(got) != WAVHeaderSize+2 {
		t.Errorf("raw PCM not wrapped: %v", got)
	}
	if Duration([]byte("nope")) != 0 {
		t.Error("Duration of garbage should be 0")
	}
}

func TestFileCapturer(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "answer.pcm")
	if err := os.WriteFile(raw, []byte{1, 0, 2, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.wav")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	rec, err := FileCapturer{Path: raw, SampleRate: 8000}.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if rec.Skipped() || rec.Filename != "answer.pcm" || rec.ContentType != "audio/L16;rate=8000;channels=1" {
		t.Errorf("recording = %+v", rec)
	}

	webm := filepath.Join(dir, "answer.webm")
	webmData := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81}
	if err := os.WriteFile(webm, webmData, 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err = FileCapturer{Path: webm}.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture webm: %v", err)
	}
	if !bytes.Equal(rec.Data, webmData) || rec.ContentType != "audio/webm" {
		t.Errorf("webm recording altered: %+v", rec)
	}

	for _, path := range []string{"", empty} {
		rec, err := FileCapturer{Path: path}.Capture(ctx)
		if err != nil || !rec.Skipped() {
			t.Errorf("path %q: rec=%+v err=%v, want skip", path, rec, err)
		}
	}

	if _, err := (FileCapturer{Path: filepath.Join(dir, "missing.wav")}).Capture(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}

func TestFake(t *testing.T) {
	f := NewFake(Recording{Data: []byte("a")}, Recording{})
	boom := errors.New("mic unplugged")
	ctx := context.Background()

	if r, err := f.Capture(ctx); err != nil || string(r.Data) != "a" {
		t.Fatalf("first = %+v, %v", r, err)
	}
	f.FailNext(boom)
	if _, err := f.Capture(ctx); !errors.Is(err, boom) {
		t.Fatalf("second err = %v", err)
	}
	if r, err := f.Capture(ctx); err != nil || !r.Skipped() {
		t.Fatalf("third = %+v, %v", r, err)
	}
	if _, err := f.Capture(ctx); !errors.Is(err, ErrNoMoreRecordings) {
		t.Fatalf("fourth err = %v", err)
	}
	if f.Calls() != 4 {
		t.Errorf("Calls = %d", f.Calls())
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := f.Capture(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v", err)
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"wav", EncodeWAV([]byte{1, 0}, 16000, 1), "audio/wav"},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, "audio/webm"},
		{"ogg", []byte("OggS\x00\x02"), "audio/ogg"},
		{"mp4", []byte("\x00\x00\x00\x18ftypM4A "), "audio/mp4"},
		{"mp3 id3", []byte("ID3\x04\x00"), "audio/mpeg"},
		{"unknown", []byte{1, 0, 2, 0}, "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectContentType(tt.data); got != tt.want {
				t.Errorf("DetectContentType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	webm := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81}
	pcm := []byte{1, 0, 2, 0}

	tests := []struct {
		name         string
		in           Recording
		wantType     string
		wantFilename string
		wantWrapped  bool
	}{
		{"browser webm kept", Recording{Data: webm, Filename: "recording.webm", ContentType: "audio/webm;codecs=opus"}, "audio/webm;codecs=opus", "recording.webm", false},
		{"octet-stream sniffed", Recording{Data: webm, Filename: "blob", ContentType: "application/octet-stream"}, "audio/webm", "blob", false},
		{"no metadata", Recording{Data: webm}, "audio/webm", "response.webm", false},
		{"unknown bytes forwarded", Recording{Data: pcm}, "application/octet-stream", "response", false},
		{"declared pcm wrapped", Recording{Data: pcm, Filename: "mic.pcm", ContentType: "audio/pcm"}, "audio/wav", "mic.wav", true},
		{"declared L16 wrapped", Recording{Data: pcm, ContentType: "audio/L16;rate=8000;channels=2"}, "audio/wav", "response.wav", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prepare(tt.in)
			if got.ContentType != tt.wantType || got.Filename != tt.wantFilename {
				t.Errorf("got type=%q filename=%q", got.ContentType, got.Filename)
			}
			if tt.wantWrapped {
				if !IsWAV(got.Data) || len(got.Data) != WAVHeaderSize+len(tt.in.Data) {
					t.Errorf("not wrapped: %v", got.Data)
				}
			} else if !bytes.Equal(got.Data, tt.in.Data) {
				t.Errorf("bytes altered: %v", got.Data)
			}
		})
	}

	l16 := Prepare(Recording{Data: pcm, ContentType: "audio/L16;rate=8000;channels=2"})
	if rate := binary.LittleEndian.Uint32(l16.Data[24:28]); rate != 8000 {
		t.Errorf("sample rate = %d", rate)
	}
	if ch := binary.LittleEndian.Uint16(l16.Data[22:24]); ch != 2 {
		t.Errorf("channels = %d", ch)
	}
}
