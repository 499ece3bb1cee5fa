package wad

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gopxl/beep"
)

var ErrNotDoomSound = errors.New("wad: not a DMX sound")

const (
	dmxFormat     = 3
	dmxHeaderSize = 8
	minSampleRate = 4000
)

// Sound lumps in the WAD file are stored in the DMX format; which consists of a short header
// followed by raw 8-bit, monaural (PCM) unsigned data, typically at a sampling rate of 11025 Hz,
// although some sounds use 22050 Hz. Each sample is one byte (8 bits).
type Sound struct {
	Name       string
	SampleRate int
	Samples    []byte
}

// DecodeSound parses a DMX sound lump. Everything after the eight byte header
// is treated as sample data.
func DecodeSound(name string, lump []byte) (*Sound, error) {
	if len(lump) < 4 || lump[0] != dmxFormat {
		return nil, fmt.Errorf("%w: %v", ErrNotDoomSound, name)
	}

	rate := int(binary.LittleEndian.Uint16(lump[2:4]))
	if rate < 8000 || rate > 48000 {
		logger.Printf("Sound %v: weird frequency: %d Hz", name, rate)
	}
	rate = max(rate, minSampleRate)

	if len(lump) <= dmxHeaderSize {
		return nil, fmt.Errorf("%w: %v has no samples", ErrNotDoomSound, name)
	}

	return &Sound{Name: name, SampleRate: rate, Samples: lump[dmxHeaderSize:]}, nil
}

// Format describes the decoded stream: stereo, one byte of precision.
func (s *Sound) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.SampleRate),
		NumChannels: 2,
		Precision:   1,
	}
}

// Streamer returns a seekable stream over the sound. The mono source is
// duplicated to both channels.
func (s *Sound) Streamer() beep.StreamSeeker {
	return &soundStreamer{samples: s.Samples}
}

type soundStreamer struct {
	samples []byte
	pos     int
}

// Stream converts unsigned 8-bit PCM to [-1, 1).
func (ss *soundStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if ss.pos >= len(ss.samples) {
		return 0, false
	}
	for n < len(samples) && ss.pos < len(ss.samples) {
		v := (float64(ss.samples[ss.pos]) - 128) / 128
		samples[n][0] = v
		samples[n][1] = v
		n++
		ss.pos++
	}
	return n, true
}

func (ss *soundStreamer) Err() error { return nil }

func (ss *soundStreamer) Len() int { return len(ss.samples) }

func (ss *soundStreamer) Position() int { return ss.pos }

func (ss *soundStreamer) Seek(p int) error {
	if p < 0 || p > len(ss.samples) {
		return fmt.Errorf("wad: seek %d out of range [0, %d]", p, len(ss.samples))
	}
	ss.pos = p
	return nil
}

// Sound reads and decodes the DS-prefixed lump for name ("pistol" reads
// DSPISTOL).
func (w *WAD) Sound(name string) (*Sound, error) {
	name = strings.ToUpper(name)
	if !strings.HasPrefix(name, "DS") {
		name = "DS" + name
	}
	lump, err := w.ReadLumpName(name)
	if err != nil {
		return nil, err
	}
	return DecodeSound(name, lump)
}

// Sounds decodes every DS lump in the archive, keyed by lump name. Lumps that
// are not DMX sounds are skipped.
func (w *WAD) Sounds() (map[string]*Sound, error) {
	logger.Printf("Loading DS sounds ...")
	sounds := map[string]*Sound{}
	for i := range w.lumpInfos {
		info := &w.lumpInfos[i]
		if !strings.HasPrefix(info.Name, "DS") {
			continue
		}
		lump, err := w.readLump(info)
		if err != nil {
			return nil, err
		}
		sound, err := DecodeSound(info.Name, lump)
		if err != nil {
			logger.Printf("Skipping %v: %v", info.Name, err)
			continue
		}
		sounds[info.Name] = sound
	}
	logger.Printf("Loaded %v sounds", len(sounds))
	return sounds, nil
}
