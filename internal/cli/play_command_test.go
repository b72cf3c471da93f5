package cli

import (
	"encoding/binary"
	"strings"
	"testing"
)

func decodeStreamInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.NativeEndian.Uint16(data[i*2:]))
	}
	return samples
}

func TestPlayCommand(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	backend := &mockBackend{}
	cli, fs, factory := newTestCLI(t, backend)
	writeCliTestWav(t, fs, "/clip.wav", 2, []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04})

	code, stdout, stderr := runCLI(cli, "play", "--backend", "mock", "--volume", "0.8", "/clip.wav")

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr)
	}
	if factory.requestedAs != "mock" {
		t.Errorf("expected backend 'mock' requested, got %q", factory.requestedAs)
	}
	if !backend.started {
		t.Error("backend was never started")
	}
	if !backend.closed {
		t.Error("backend was never closed")
	}
	if backend.volume != 0.8 {
		t.Errorf("expected volume 0.8, got %f", backend.volume)
	}

	if backend.lastStream == nil {
		t.Fatal("no stream reached the backend")
	}
	got := decodeStreamInt16(backend.lastStream.Data)
	want := []int16{256, 512, 768, 1024}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	if !strings.Contains(stdout, "Played /clip.wav") {
		t.Errorf("stdout missing play summary, got: %s", stdout)
	}
	if !strings.Contains(stdout, "WAV") {
		t.Errorf("stdout missing codec name, got: %s", stdout)
	}
}

func TestPlayCommandSilent(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	backend := &mockBackend{}
	cli, fs, _ := newTestCLI(t, backend)
	writeCliTestWav(t, fs, "/clip.wav", 1, []byte{0x00, 0x10})

	code, stdout, stderr := runCLI(cli, "play", "--silent", "/clip.wav")

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr)
	}
	if backend.started {
		t.Error("silent mode must not start the backend")
	}
	if !strings.Contains(stdout, "Decoded /clip.wav") {
		t.Errorf("stdout missing decode summary, got: %s", stdout)
	}
}

func TestPlayCommandMultipleFiles(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	backend := &mockBackend{}
	cli, fs, _ := newTestCLI(t, backend)
	writeCliTestWav(t, fs, "/a.wav", 1, []byte{0x00, 0x01})
	writeCliTestWav(t, fs, "/b.wav", 2, []byte{0x00, 0x01, 0x00, 0x02})

	code, stdout, stderr := runCLI(cli, "play", "--backend", "mock", "/a.wav", "/b.wav")

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr)
	}
	if strings.Count(stdout, "Played ") != 2 {
		t.Errorf("expected two play summaries, got: %s", stdout)
	}
}

func TestPlayCommandMissingFile(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	cli, _, _ := newTestCLI(t, &mockBackend{})

	code, _, stderr := runCLI(cli, "play", "/missing.wav")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "Error playing /missing.wav") {
		t.Errorf("stderr missing error report, got: %s", stderr)
	}
}

func TestPlayCommandNoArgs(t *testing.T) {
	cli, _, _ := newTestCLI(t, &mockBackend{})

	code, _, _ := runCLI(cli, "play")

	if code != 1 {
		t.Errorf("expected exit code 1 without file arguments, got %d", code)
	}
}

func TestPlayCommandInvalidVolume(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	for _, volume := range []string{"abc", "1.5", "-0.1"} {
		cli, fs, _ := newTestCLI(t, &mockBackend{})
		writeCliTestWav(t, fs, "/clip.wav", 1, []byte{0x00, 0x01})

		code, _, _ := runCLI(cli, "play", "--volume", volume, "/clip.wav")
		if code != 1 {
			t.Errorf("volume %q: expected exit code 1, got %d", volume, code)
		}
	}
}

func TestPlayCommandInteractiveProgress(t *testing.T) {
	t.Setenv("PCMBOX_HISTORY", "false")

	backend := &mockBackend{}
	cli, fs, _ := newTestCLI(t, backend)
	cli.terminalDetector = &mockTerminal{interactive: true}
	writeCliTestWav(t, fs, "/clip.wav", 1, []byte{0x00, 0x01})

	code, stdout, _ := runCLI(cli, "play", "--backend", "mock", "/clip.wav")

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "Playing /clip.wav") {
		t.Errorf("interactive progress line missing, got: %s", stdout)
	}
}
