package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"github.com/tomz197/invaders/internal/config"
)

// format is what every buffered sound is converted to.
func format(rate beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
}

// Bank holds the decoded sounds, ready to be played any number of times.
type Bank struct {
	effects map[Sound]*beep.Buffer
	music   *beep.Buffer
}

// LoadBank builds every sound. Configured WAV files are decoded and resampled
// to rate; sounds without a file use the generated tones. A file that cannot
// be read or decoded is an error.
func LoadBank(cfg config.AudioConfig, rate beep.SampleRate) (*Bank, error) {
	files := map[Sound]string{
		Shot:           cfg.Shot,
		AlienExplosion: cfg.AlienExplosion,
		ShipExplosion:  cfg.ShipExplosion,
	}

	b := &Bank{effects: make(map[Sound]*beep.Buffer, len(files))}
	for _, s := range Sounds {
		buf, err := loadOrGenerate(files[s], rate, func() beep.Streamer { return Effect(s, rate) })
		if err != nil {
			return nil, fmt.Errorf("load %s sound: %w", s, err)
		}
		b.effects[s] = buf
	}

	music, err := loadOrGenerate(cfg.Music, rate, func() beep.Streamer { return Music(rate) })
	if err != nil {
		return nil, fmt.Errorf("load music: %w", err)
	}
	b.music = music
	return b, nil
}

// Effect returns a fresh streamer over the buffered sound.
func (b *Bank) Effect(s Sound) beep.StreamSeeker {
	buf, ok := b.effects[s]
	if !ok {
		return nil
	}
	return buf.Streamer(0, buf.Len())
}

// Music returns a streamer looping the background track forever.
func (b *Bank) Music() beep.Streamer {
	return beep.Loop(-1, b.music.Streamer(0, b.music.Len()))
}

func loadOrGenerate(path string, rate beep.SampleRate, generate func() beep.Streamer) (*beep.Buffer, error) {
	buf := beep.NewBuffer(format(rate))
	if path == "" {
		buf.Append(generate())
		return buf, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, fileFormat, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if fileFormat.SampleRate != rate {
		s = beep.Resample(4, fileFormat.SampleRate, rate, streamer)
	}
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// Speaker plays sounds on the local audio device. If the device cannot be
// opened it stays silent.
type Speaker struct {
	mu           sync.Mutex
	bank         *Bank
	log          *zap.Logger
	ready        bool
	musicPlaying bool
}

// NewSpeaker loads the sound bank and opens the audio device.
// Only a bad sound file is an error; a missing device means silence.
func NewSpeaker(cfg config.AudioConfig, log *zap.Logger) (*Speaker, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	bank, err := LoadBank(cfg, rate)
	if err != nil {
		return nil, err
	}

	s := &Speaker{bank: bank, log: log}
	if !cfg.Enabled {
		log.Info("audio disabled")
		return s, nil
	}

	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		log.Warn("audio device unavailable, running silent", zap.Error(err))
		return s, nil
	}
	s.ready = true
	log.Debug("audio initialized", zap.Int("sample_rate", cfg.SampleRate))
	return s, nil
}

func (s *Speaker) Play(sound Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	if st := s.bank.Effect(sound); st != nil {
		speaker.Play(st)
	}
}

// PlayMusic starts the background loop. Further calls do nothing.
func (s *Speaker) PlayMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || s.musicPlaying {
		return
	}
	speaker.Play(s.bank.Music())
	s.musicPlaying = true
}

// Close stops all sounds.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	speaker.Clear()
	s.ready = false
	s.musicPlaying = false
}
