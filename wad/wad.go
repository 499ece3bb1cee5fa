// Package wad reads the parts of Doom's data archives (WAD files) that the map
// collision core needs: level geometry lumps and DMX sound effects.
// The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

var (
	ErrBadMagic      = errors.New("wad: bad magic")
	ErrLumpNotFound  = errors.New("wad: lump not found")
	ErrLevelNotFound = errors.New("wad: level not found")
	ErrTruncated     = errors.New("wad: truncated lump")
	ErrBadDirectory  = errors.New("wad: bad directory")
)

// Size of one directory entry on disk.
const lumpInfoSize = 16

// WAD is an open archive. Lumps are read lazily through the directory.
type WAD struct {
	header    Header
	file      io.ReadSeeker
	closer    io.Closer
	lumpInfos []LumpInfo
	lumpNums  map[string]int
	levels    map[string]int
	IsPWAD    bool
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type Header struct {
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

type LumpInfo struct {
	Name    string
	Filepos int
	Size    int
}

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

// NewWAD opens filename and reads its directory. The returned WAD keeps the
// file open until Close is called.
func NewWAD(filename string) (*WAD, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	w, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	w.closer = file
	return w, nil
}

// NewReader reads the header and directory of an archive held by r.
func NewReader(r io.ReadSeeker) (*WAD, error) {
	logger.Println("Start reading WAD")

	w := &WAD{file: r}
	if err := w.seek(0); err != nil {
		return nil, err
	}

	var bh binHeader
	if err := binary.Read(r, binary.LittleEndian, &bh); err != nil {
		return nil, err
	}
	switch string(bh.Magic[:]) {
	case "IWAD":
	case "PWAD":
		w.IsPWAD = true
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, bh.Magic[:])
	}
	if bh.NumLumps < 0 || bh.InfoTableOfs < 0 {
		return nil, fmt.Errorf("%w: negative directory", ErrBadMagic)
	}
	w.header = Header{int(bh.NumLumps), int(bh.InfoTableOfs)}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if end := int64(w.header.InfoTableOfs) + int64(w.header.NumLumps)*lumpInfoSize; end > size {
		return nil, fmt.Errorf("%w: %v lumps at offset %v overrun %v bytes",
			ErrBadDirectory, w.header.NumLumps, w.header.InfoTableOfs, size)
	}

	if err := w.readInfoTables(); err != nil {
		return nil, err
	}
	logger.Printf("Read %v lumps, %v levels", len(w.lumpInfos), len(w.levels))
	return w, nil
}

// Close releases the underlying file, if NewWAD opened one.
func (w *WAD) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *WAD) readInfoTables() error {
	if err := w.seek(int64(w.header.InfoTableOfs)); err != nil {
		return err
	}
	binInfos := make([]binLumpInfo, w.header.NumLumps)
	if err := binary.Read(w.file, binary.LittleEndian, binInfos); err != nil {
		return err
	}

	w.lumpNums = make(map[string]int, len(binInfos))
	w.levels = map[string]int{}
	w.lumpInfos = make([]LumpInfo, len(binInfos))
	for i, bi := range binInfos {
		if bi.Filepos < 0 || bi.Size < 0 {
			return fmt.Errorf("%w: lump %v %q at %v size %v", ErrBadDirectory, i, bi.Name.String(), bi.Filepos, bi.Size)
		}
		info := LumpInfo{strings.ToUpper(bi.Name.String()), int(bi.Filepos), int(bi.Size)}
		// A level is the marker lump immediately preceding its THINGS
		if info.Name == "THINGS" && i > 0 {
			w.levels[w.lumpInfos[i-1].Name] = i - 1
		}
		// Later lumps override earlier ones, as in the engine
		w.lumpNums[info.Name] = i
		w.lumpInfos[i] = info
	}
	return nil
}

// LevelNames returns the sorted names of every level marker in the archive.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0, len(w.levels))
	for name := range w.levels {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Lumps returns the directory entries in file order.
func (w *WAD) Lumps() []LumpInfo {
	return w.lumpInfos
}

// ReadLumpName reads the whole of the last lump called name.
func (w *WAD) ReadLumpName(name string) ([]byte, error) {
	num, ok := w.lumpNums[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLumpNotFound, name)
	}
	return w.readLump(&w.lumpInfos[num])
}

// seek
func (w *WAD) seek(offset int64) error {
	off, err := w.file.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	if off != offset {
		return fmt.Errorf("seek failed")
	}
	return nil
}

// Read entire lump
func (w *WAD) readLump(lumpInfo *LumpInfo) ([]byte, error) {
	if err := w.seek(int64(lumpInfo.Filepos)); err != nil {
		return nil, err
	}
	lump := make([]byte, lumpInfo.Size)
	if _, err := io.ReadFull(w.file, lump); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, lumpInfo.Name)
		}
		return nil, err
	}
	return lump, nil
}
