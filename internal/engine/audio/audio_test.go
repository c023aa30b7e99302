package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

type mapLoader map[string][]byte

func (m mapLoader) Load(name string) ([]byte, error) {
	if data, ok := m[name]; ok {
		return data, nil
	}
	return nil, errors.New("not found: " + name)
}

// silentWAV encodes n frames of stereo silence.
func silentWAV(t *testing.T, n int, rate beep.SampleRate) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(n), format); err != nil {
		t.Fatalf("wav.Encode: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
	}

	for _, tt := range tests {
		if got := volumeExponent(tt.vol); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New(mapLoader{}, Options{MasterVolume: 0.8, MusicVolume: 1.5, SFXVolume: 0.6}, nil)

	if m.GetMasterVolume() != 0.8 {
		t.Errorf("master volume = %f, want 0.8", m.GetMasterVolume())
	}
	if m.GetBGMVolume() != 1.0 {
		t.Errorf("BGM volume = %f, want 1.0 (clamped)", m.GetBGMVolume())
	}
	if m.GetSFXVolume() != 0.6 {
		t.Errorf("SFX volume = %f, want 0.6", m.GetSFXVolume())
	}
	if m.IsInitialized() {
		t.Error("manager should not be initialized before Init")
	}
}

func TestSetVolume(t *testing.T) {
	m := New(mapLoader{}, Options{MasterVolume: 1}, nil)

	m.SetMasterVolume(0.5)
	if m.GetMasterVolume() != 0.5 {
		t.Errorf("master volume = %f, want 0.5", m.GetMasterVolume())
	}

	m.SetMasterVolume(2.0)
	if m.GetMasterVolume() != 1.0 {
		t.Errorf("master volume = %f, want 1.0 (clamped)", m.GetMasterVolume())
	}

	m.SetMasterVolume(-1.0)
	if m.GetMasterVolume() != 0.0 {
		t.Errorf("master volume = %f, want 0.0 (clamped)", m.GetMasterVolume())
	}
}

func TestMusicDeferredUntilUnlock(t *testing.T) {
	m := New(mapLoader{}, Options{MasterVolume: 1, MusicVolume: 1, DeferUntilInput: true}, nil)

	if err := m.LoadAndLoopMusic("music/a.ogg"); err != nil {
		t.Fatalf("deferred request should not fail: %v", err)
	}
	if err := m.LoadAndLoopMusic("music/b.ogg"); err != nil {
		t.Fatal(err)
	}
	if got := m.PendingMusic(); got != "music/b.ogg" {
		t.Errorf("pending music = %q, want the latest request", got)
	}
	if err := m.PlayOneShot("sounds/confirm.wav"); err != nil {
		t.Errorf("effects before unlock should be dropped silently: %v", err)
	}

	// The speaker was never opened, so starting the pending track fails.
	if err := m.Unlock(); !errors.Is(err, errNotInitialized) {
		t.Errorf("Unlock error = %v, want errNotInitialized", err)
	}
	if m.PendingMusic() != "" {
		t.Error("pending music should be consumed by Unlock")
	}
	if err := m.Unlock(); err != nil {
		t.Errorf("second Unlock should be a no-op: %v", err)
	}
}

func TestMutedManagerIgnoresRequests(t *testing.T) {
	m := New(mapLoader{}, Options{Muted: true}, nil)

	if err := m.Init(); err != nil {
		t.Fatalf("muted Init should not open a device: %v", err)
	}
	if m.IsInitialized() {
		t.Error("muted manager should stay uninitialized")
	}
	if err := m.LoadAndLoopMusic("music/a.ogg"); err != nil {
		t.Error(err)
	}
	if err := m.PlayOneShot("sounds/confirm.wav"); err != nil {
		t.Error(err)
	}
	if m.GetBGMPath() != "" {
		t.Error("muted manager should not track music")
	}
}

func TestUninitializedPlaybackFails(t *testing.T) {
	m := New(mapLoader{}, Options{MasterVolume: 1}, nil)

	if err := m.LoadAndLoopMusic("music/a.ogg"); !errors.Is(err, errNotInitialized) {
		t.Errorf("LoadAndLoopMusic error = %v, want errNotInitialized", err)
	}
	if err := m.PlayOneShot("sounds/confirm.wav"); !errors.Is(err, errNotInitialized) {
		t.Errorf("PlayOneShot error = %v, want errNotInitialized", err)
	}
}

func TestDecodeByExtension(t *testing.T) {
	data := silentWAV(t, 100, 22050)

	streamer, format, err := decode("sounds/confirm.WAV", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer streamer.Close()
	if format.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", format.SampleRate)
	}
	if streamer.Len() != 100 {
		t.Errorf("length = %d, want 100", streamer.Len())
	}

	for _, name := range []string{"music/theme.flac", "music/theme"} {
		if _, _, err := decode(name, data); err == nil {
			t.Errorf("decode(%q) should fail", name)
		}
	}
}

func TestLoopStreamerWraps(t *testing.T) {
	streamer, _, err := decode("a.wav", silentWAV(t, 100, 44100))
	if err != nil {
		t.Fatal(err)
	}
	defer streamer.Close()

	loop := &loopStreamer{streamer: streamer, resampled: streamer}
	samples := make([][2]float64, 250)
	n, ok := loop.Stream(samples)
	if n != 250 || !ok {
		t.Errorf("Stream = (%d, %v), want (250, true)", n, ok)
	}
	if streamer.Position() != 50 {
		t.Errorf("position after wrapping = %d, want 50", streamer.Position())
	}
}
