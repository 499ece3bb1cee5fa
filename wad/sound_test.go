package wad

import (
	"encoding/binary"
	"errors"
	"testing"
)

// dmx builds a DMX sound lump: format, rate, sample count, samples.
func dmx(rate uint16, samples ...byte) []byte {
	lump := make([]byte, dmxHeaderSize, dmxHeaderSize+len(samples))
	lump[0] = dmxFormat
	binary.LittleEndian.PutUint16(lump[2:], rate)
	binary.LittleEndian.PutUint32(lump[4:], uint32(len(samples)))
	return append(lump, samples...)
}

func TestDecodeSound(t *testing.T) {
	s, err := DecodeSound("DSPISTOL", dmx(11025, 1, 2, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "DSPISTOL" || s.SampleRate != 11025 {
		t.Errorf("got %v at %v Hz", s.Name, s.SampleRate)
	}
	if len(s.Samples) != 4 || s.Samples[0] != 1 || s.Samples[3] != 4 {
		t.Errorf("samples %v", s.Samples)
	}
}

func TestDecodeSoundRates(t *testing.T) {
	tests := []struct {
		rate uint16
		want int
	}{
		{22050, 22050},
		{8000, 8000},
		{5000, 5000},
		{2000, minSampleRate},
		{0, minSampleRate},
		{50000, 50000},
	}
	for _, tc := range tests {
		s, err := DecodeSound("DSTEST", dmx(tc.rate, 128))
		if err != nil {
			t.Fatalf("rate %v: %v", tc.rate, err)
		}
		if s.SampleRate != tc.want {
			t.Errorf("rate %v decoded as %v, want %v", tc.rate, s.SampleRate, tc.want)
		}
	}
}

func TestDecodeSoundRejects(t *testing.T) {
	pcSpeaker := dmx(11025, 1, 2)
	pcSpeaker[0] = 0

	tests := map[string][]byte{
		"empty":       nil,
		"short":       {3, 0},
		"pc speaker":  pcSpeaker,
		"header only": dmx(11025),
	}
	for name, lump := range tests {
		if _, err := DecodeSound("DSTEST", lump); !errors.Is(err, ErrNotDoomSound) {
			t.Errorf("%s: got %v, want ErrNotDoomSound", name, err)
		}
	}
}

func TestSoundStreamer(t *testing.T) {
	s, err := DecodeSound("DSTEST", dmx(11025, 0, 128, 255))
	if err != nil {
		t.Fatal(err)
	}
	f := s.Format()
	if f.SampleRate != 11025 || f.NumChannels != 2 || f.Precision != 1 {
		t.Errorf("format %+v", f)
	}

	st := s.Streamer()
	if st.Len() != 3 || st.Position() != 0 {
		t.Errorf("len %v position %v", st.Len(), st.Position())
	}

	buf := make([][2]float64, 2)
	n, ok := st.Stream(buf)
	if n != 2 || !ok {
		t.Fatalf("first stream: %v %v", n, ok)
	}
	if buf[0] != [2]float64{-1, -1} || buf[1] != [2]float64{0, 0} {
		t.Errorf("first samples %v", buf)
	}

	n, ok = st.Stream(buf)
	if n != 1 || !ok || buf[0] != [2]float64{127.0 / 128, 127.0 / 128} {
		t.Errorf("second stream: %v %v %v", n, ok, buf[0])
	}

	if n, ok := st.Stream(buf); n != 0 || ok {
		t.Errorf("drained stream: %v %v", n, ok)
	}
	if st.Err() != nil {
		t.Error(st.Err())
	}

	if err := st.Seek(1); err != nil {
		t.Fatal(err)
	}
	if st.Position() != 1 {
		t.Errorf("position %v after seek", st.Position())
	}
	if n, _ := st.Stream(buf); n != 2 || buf[0][0] != 0 {
		t.Errorf("after seek: %v %v", n, buf[0])
	}
	if err := st.Seek(3); err != nil {
		t.Errorf("seek to end: %v", err)
	}
	if st.Seek(4) == nil || st.Seek(-1) == nil {
		t.Error("out of range seek accepted")
	}
}

func TestWADSounds(t *testing.T) {
	bad := dmx(11025, 1)
	bad[0] = 0
	w := openWAD(t, "PWAD", []testLump{
		{"DSPISTOL", dmx(11025, 10, 20, 30)},
		{"DPPISTOL", dmx(140, 1, 2)},
		{"DSBAD", bad},
		{"DSDOROPN", dmx(22050, 128, 128)},
	})

	sounds, err := w.Sounds()
	if err != nil {
		t.Fatal(err)
	}
	if len(sounds) != 2 || sounds["DSPISTOL"] == nil || sounds["DSDOROPN"] == nil {
		t.Errorf("got sounds %v", sounds)
	}

	s, err := w.Sound("pistol")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "DSPISTOL" || len(s.Samples) != 3 {
		t.Errorf("pistol %v with %v samples", s.Name, len(s.Samples))
	}
	if s, err := w.Sound("DSDOROPN"); err != nil || s.SampleRate != 22050 {
		t.Errorf("full name lookup: %v", err)
	}
	if _, err := w.Sound("bfg"); !errors.Is(err, ErrLumpNotFound) {
		t.Errorf("missing sound: got %v", err)
	}
}
