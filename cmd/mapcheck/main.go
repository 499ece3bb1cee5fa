// Command mapcheck loads a level from a WAD, places its things, and reports
// line gaps, area occupancy and sliding door paths.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gopxl/beep/wav"

	"github.com/stuarthighley/maputl"
	"github.com/stuarthighley/maputl/wad"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

func main() {
	configPath := flag.String("config", "mapcheck.yaml", "YAML configuration file")
	wadPath := flag.String("wad", "", "WAD file, overrides the configuration")
	levelName := flag.String("level", "", "level name, overrides the configuration")
	tree := flag.Bool("tree", false, "print the BSP tree")
	watch := flag.Bool("watch", false, "re-check whenever the WAD file changes")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatalln(err)
		}
		logger.Printf("No configuration at %v, using defaults", *configPath)
		cfg = defaultConfig()
	}
	if *wadPath != "" {
		cfg.WAD = *wadPath
	}
	if *levelName != "" {
		cfg.Level = *levelName
	}
	if cfg.WAD == "" {
		logger.Fatalln("no WAD given")
	}

	if cfg.Verbose {
		l := log.New(os.Stdout, "", log.LstdFlags)
		wad.SetLogger(l)
		maputl.SetLogger(l)
	}

	if err := check(cfg, os.Stdout, *tree); err != nil {
		logger.Println(err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		close(done)
	}()

	logger.Printf("Watching %v", cfg.WAD)
	err = watchFile(cfg.WAD, done, func() {
		logger.Printf("%v changed, checking again", cfg.WAD)
		if err := check(cfg, os.Stdout, *tree); err != nil {
			logger.Println(err)
		}
	})
	if err != nil {
		logger.Fatalln(err)
	}
}

// check runs one full pass over the configured level and writes the report
// to out.
func check(cfg Config, out io.Writer, tree bool) error {
	w, err := wad.NewWAD(cfg.WAD)
	if err != nil {
		return err
	}
	defer w.Close()

	wl, err := w.ReadLevel(cfg.Level)
	if err != nil {
		return err
	}
	level, err := maputl.Build(wl)
	if err != nil {
		return fmt.Errorf("%v: %w", cfg.Level, err)
	}

	stuck := spawnThings(level, wl.Things, &cfg)
	if err := applySliders(level, cfg.Sliders); err != nil {
		return err
	}

	r := summarize(level, &cfg)
	r.things = len(wl.Things)
	r.stuck = stuck
	r.write(out)

	if tree {
		if err := maputl.PrintTree(out, level); err != nil {
			return err
		}
	}

	if cfg.SoundDir != "" {
		if err := exportSounds(w, cfg.SoundDir); err != nil {
			return err
		}
	}
	return nil
}

// spawnThings links a MapObject for every map thing and settles it on its
// sector floor. It returns how many landed in closed sectors.
func spawnThings(level *maputl.Level, things []wad.Thing, cfg *Config) int {
	stuck := 0
	for _, t := range things {
		spec := cfg.thingSpec(t.Type)
		mo := &maputl.MapObject{
			X:      t.X,
			Y:      t.Y,
			Radius: spec.Radius,
			Height: spec.Height,
			Flags:  spec.flags(),
			Type:   t.Type,
		}
		sub := level.LinkThing(mo)
		sec := sub.Sector

		var floorZ, ceilingZ float64
		if sec.FloorSlope != nil {
			floorZ = sec.FloorSlope.ZAt(mo.X, mo.Y)
		}
		if sec.CeilingSlope != nil {
			ceilingZ = sec.CeilingSlope.ZAt(mo.X, mo.Y)
		}
		mo.Z, _, _ = maputl.ComputeThingGap(mo, sec, maputl.OnFloorZ, floorZ, ceilingZ)
		if !sec.HasGap {
			stuck++
		}
	}
	return stuck
}

func applySliders(level *maputl.Level, sliders []SliderSpec) error {
	for _, s := range sliders {
		if s.Line >= len(level.Lines) {
			return fmt.Errorf("slider line %v: level has %v lines", s.Line, len(level.Lines))
		}
		ld := &level.Lines[s.Line]
		ld.SlideDoor = true
		ld.SliderMove = &maputl.SlidingDoorMover{
			Direction: s.Direction,
			Opening:   s.Opening,
			Target:    s.Target,
		}
		maputl.ComputeLineGaps(ld)
	}
	return nil
}

type areaResult struct {
	name  string
	empty bool
}

type sliderResult struct {
	line  int
	gap   bool
	clear bool
}

type report struct {
	level         string
	things, stuck int
	lines         int
	oneSided      int
	blocked       int
	withGap       int
	noSight       int
	areas         []areaResult
	sliders       []sliderResult
}

func summarize(level *maputl.Level, cfg *Config) *report {
	r := &report{level: level.Name, lines: len(level.Lines)}
	for i := range level.Lines {
		ld := &level.Lines[i]
		if ld.BackSector == nil {
			r.oneSided++
		}
		if ld.Blocked {
			r.blocked++
		}
		if ld.HasGap {
			r.withGap++
		}
	}
	for i := range level.Sectors {
		if !level.Sectors[i].HasSightGap {
			r.noSight++
		}
	}
	for _, a := range cfg.Areas {
		box := a.box()
		r.areas = append(r.areas, areaResult{name: a.Name, empty: level.CheckAreaForThings(&box)})
	}
	for _, s := range cfg.Sliders {
		ld := &level.Lines[s.Line]
		r.sliders = append(r.sliders, sliderResult{line: s.Line, gap: ld.HasGap, clear: level.CheckSliderPathForThings(ld)})
	}
	return r
}

func (r *report) write(out io.Writer) {
	fmt.Fprintf(out, "Level %v\n", r.level)
	fmt.Fprintf(out, "  things: %v (%v stuck in closed sectors)\n", r.things, r.stuck)
	fmt.Fprintf(out, "  lines: %v, one-sided %v, blocked %v, with gap %v\n", r.lines, r.oneSided, r.blocked, r.withGap)
	fmt.Fprintf(out, "  sectors without sight gap: %v\n", r.noSight)
	for _, a := range r.areas {
		fmt.Fprintf(out, "  area %q empty: %v\n", a.name, a.empty)
	}
	for _, s := range r.sliders {
		fmt.Fprintf(out, "  slider line %v gap: %v path clear: %v\n", s.line, s.gap, s.clear)
	}
}

// exportSounds writes every DMX sound in w to dir as a WAV file.
func exportSounds(w *wad.WAD, dir string) error {
	sounds, err := w.Sounds()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, s := range sounds {
		if err := writeWAV(filepath.Join(dir, name+".wav"), s); err != nil {
			return fmt.Errorf("%v: %w", name, err)
		}
	}
	logger.Printf("Exported %v sounds to %v", len(sounds), dir)
	return nil
}

func writeWAV(filename string, s *wad.Sound) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return wav.Encode(f, s.Streamer(), s.Format())
}
