// Package audio provides audio playback for background music and sound effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

var errNotInitialized = errors.New("audio not initialized")

// Loader reads asset bytes by path.
type Loader interface {
	Load(name string) ([]byte, error)
}

// Options holds the volume settings and start policy.
type Options struct {
	MasterVolume float64
	MusicVolume  float64
	SFXVolume    float64
	Muted        bool

	// DeferUntilInput holds music back until Unlock and drops sound
	// effects requested before it.
	DeferUntilInput bool
}

// Manager plays looping background music and one-shot effects. It is safe
// for concurrent use; the speaker callback runs on its own goroutine.
type Manager struct {
	mu sync.RWMutex

	assets Loader
	log    *zap.Logger

	// State
	initialized bool
	unlocked    bool
	muted       bool
	sampleRate  beep.SampleRate

	// BGM
	musicMixer   *beep.Mixer
	bgmStreamer  beep.StreamSeekCloser
	bgmVolume    *effects.Volume
	bgmPath      string
	pendingMusic string

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	bgmVolLevel  float64
	sfxVolLevel  float64

	// SFX mixer for concurrent sound effects
	sfxMixer *beep.Mixer
}

// New creates a new audio manager. Call Init before playing anything.
func New(assets Loader, opts Options, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		assets:       assets,
		log:          log,
		muted:        opts.Muted,
		unlocked:     !opts.DeferUntilInput,
		masterVolume: clamp(opts.MasterVolume, 0, 1),
		bgmVolLevel:  clamp(opts.MusicVolume, 0, 1),
		sfxVolLevel:  clamp(opts.SFXVolume, 0, 1),
		musicMixer:   &beep.Mixer{},
		sfxMixer:     &beep.Mixer{},
	}
}

// Init initializes the speaker. A muted manager never opens the device.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || m.muted {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.musicMixer, m.sfxMixer)

	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopBGMInternal()
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Unlock allows playback to start after the first player input and starts
// any music requested before it.
func (m *Manager) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unlocked {
		return nil
	}
	m.unlocked = true
	pending := m.pendingMusic
	m.pendingMusic = ""
	if pending == "" {
		return nil
	}
	m.log.Debug("starting deferred music", zap.String("path", pending))
	return m.playBGMInternal(pending)
}

// PendingMusic returns the music held back until Unlock.
func (m *Manager) PendingMusic() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingMusic
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetBGMVolume sets the BGM volume (0.0 to 1.0).
func (m *Manager) SetBGMVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bgmVolLevel = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetBGMVolume returns the BGM volume.
func (m *Manager) GetBGMVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmVolLevel
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

func (m *Manager) updateBGMVolume() {
	if m.bgmVolume == nil {
		return
	}
	vol := m.masterVolume * m.bgmVolLevel
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	m.bgmVolume.Silent = vol <= 0
	m.bgmVolume.Volume = volumeExponent(vol)
}

// volumeExponent converts a 0-1 volume to the base-2 exponent effects.Volume
// expects, so that vol=0.5 is half the amplitude.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// seekableBytes lets decoders seek the in-memory file, which looping needs.
type seekableBytes struct {
	*bytes.Reader
}

func (seekableBytes) Close() error { return nil }

var _ io.ReadSeekCloser = seekableBytes{}

// decode picks the decoder from the file extension.
func decode(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := seekableBytes{bytes.NewReader(data)}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
}

func (m *Manager) open(name string) (beep.StreamSeekCloser, beep.Streamer, error) {
	data, err := m.assets.Load(name)
	if err != nil {
		return nil, nil, err
	}
	streamer, format, err := decode(name, data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", name, err)
	}
	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	return streamer, resampled, nil
}

// LoadAndLoopMusic replaces the background music with the file at path,
// looping it. Requesting the track already playing leaves it running.
func (m *Manager) LoadAndLoopMusic(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.muted || path == m.bgmPath {
		return nil
	}
	if !m.unlocked {
		m.pendingMusic = path
		m.log.Debug("music deferred until first input", zap.String("path", path))
		return nil
	}
	return m.playBGMInternal(path)
}

func (m *Manager) playBGMInternal(path string) error {
	if !m.initialized {
		return errNotInitialized
	}

	streamer, resampled, err := m.open(path)
	if err != nil {
		return err
	}

	m.stopBGMInternal()

	m.bgmVolume = &effects.Volume{
		Streamer: &loopStreamer{streamer: streamer, resampled: resampled},
		Base:     2,
	}
	m.bgmStreamer = streamer
	m.bgmPath = path
	m.updateBGMVolume()

	speaker.Lock()
	m.musicMixer.Add(m.bgmVolume)
	speaker.Unlock()

	m.log.Info("music started", zap.String("path", path))
	return nil
}

// StopBGM stops the current background music.
func (m *Manager) StopBGM() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopBGMInternal()
}

func (m *Manager) stopBGMInternal() {
	if m.initialized {
		speaker.Lock()
		m.musicMixer.Clear()
		speaker.Unlock()
	}
	if m.bgmStreamer != nil {
		m.bgmStreamer.Close()
		m.bgmStreamer = nil
	}
	m.bgmVolume = nil
	m.bgmPath = ""
}

// GetBGMPath returns the path of the currently playing BGM.
func (m *Manager) GetBGMPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmPath
}

// PlayOneShot plays a sound effect once, mixed over anything already playing.
func (m *Manager) PlayOneShot(path string) error {
	m.mu.RLock()
	muted, unlocked, initialized := m.muted, m.unlocked, m.initialized
	sfxVol := m.masterVolume * m.sfxVolLevel
	m.mu.RUnlock()

	if muted || !unlocked {
		return nil
	}
	if !initialized {
		return errNotInitialized
	}

	_, resampled, err := m.open(path)
	if err != nil {
		return err
	}

	volStreamer := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeExponent(sfxVol),
		Silent:   sfxVol <= 0,
	}

	speaker.Lock()
	m.sfxMixer.Add(volStreamer)
	speaker.Unlock()
	return nil
}

// loopStreamer restarts the underlying streamer whenever it runs out.
type loopStreamer struct {
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if l.streamer.Len() == 0 || l.streamer.Seek(0) != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
