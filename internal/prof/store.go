package prof

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FormatVersion is the record layout written by Write.
const FormatVersion = 1

// legacyBlockSize is one block of the headerless v0 record: three uint32
// counts, three float32 clocks, a uint32 flag, 4 bytes of padding and two
// int64 clock stamps.
const legacyBlockSize = 48

var (
	ErrBadMagic   = errors.New("prof: not a profile record")
	ErrVersion    = errors.New("prof: unsupported record version")
	ErrBlockCount = errors.New("prof: block count mismatch")
	ErrBlockName  = errors.New("prof: block name mismatch")
)

// Magic opens every v1 record.
var Magic = [4]byte{'P', 'R', 'O', 'F'}

type header struct {
	Magic   [4]byte
	Version uint16
	Count   uint16
}

type diskBlock struct {
	CountLastFrame    uint32
	CountCurrentFrame uint32
	CountTotal        uint32
	ClockLastFrame    float64
	ClockCurrentFrame float64
	ClockTotal        float64
	Active            uint8
}

type legacyBlock struct {
	CountLastFrame    uint32
	CountCurrentFrame uint32
	CountTotal        uint32
	ClockLastFrame    float32
	ClockCurrentFrame float32
	ClockTotal        float32
	Active            uint32
	_                 [4]byte
	ClockStart        int64
	ClockEnd          int64
}

// Write encodes blocks as a v1 record.
func Write(w io.Writer, blocks []Block) error {
	if len(blocks) > 0xFFFF {
		return fmt.Errorf("%w: %d blocks", ErrBlockCount, len(blocks))
	}
	var buf bytes.Buffer
	h := header{Magic: Magic, Version: FormatVersion, Count: uint16(len(blocks))}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return err
	}
	for _, b := range blocks {
		if b.Name == "" || len(b.Name) > MaxNameLen {
			return fmt.Errorf("%w: %q", ErrBlockName, b.Name)
		}
		buf.WriteByte(byte(len(b.Name)))
		buf.WriteString(b.Name)
		db := diskBlock{
			CountLastFrame:    b.CountLastFrame,
			CountCurrentFrame: b.CountCurrentFrame,
			CountTotal:        b.CountTotal,
			ClockLastFrame:    b.ClockLastFrame,
			ClockCurrentFrame: b.ClockCurrentFrame,
			ClockTotal:        b.ClockTotal,
		}
		if b.Active {
			db.Active = 1
		}
		if err := binary.Write(&buf, binary.LittleEndian, db); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Read decodes one record. v1 records must match reg in count and names;
// headerless v0 records take their names from reg.
func Read(r io.Reader, reg *Registry) ([]Block, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("prof: read record: %w", err)
	}
	if len(raw) >= len(Magic) && bytes.Equal(raw[:len(Magic)], Magic[:]) {
		return readV1(bytes.NewReader(raw), reg)
	}
	if len(raw) == reg.Len()*legacyBlockSize {
		return readV0(bytes.NewReader(raw), reg)
	}
	return nil, fmt.Errorf("%w: %d bytes without magic", ErrBadMagic, len(raw))
}

func readV1(r *bytes.Reader, reg *Registry) ([]Block, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("prof: record header: %w", err)
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	if int(h.Count) != reg.Len() {
		return nil, fmt.Errorf("%w: record has %d, expected %d", ErrBlockCount, h.Count, reg.Len())
	}

	blocks := make([]Block, h.Count)
	for i := range blocks {
		n, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("prof: block %d: %w", i, io.ErrUnexpectedEOF)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("prof: block %d name: %w", i, err)
		}
		if want := reg.String(Name(i)); string(name) != want {
			return nil, fmt.Errorf("%w: block %d is %q, expected %q", ErrBlockName, i, name, want)
		}
		var db diskBlock
		if err := binary.Read(r, binary.LittleEndian, &db); err != nil {
			return nil, fmt.Errorf("prof: block %d: %w", i, err)
		}
		blocks[i] = Block{
			Name:              string(name),
			CountLastFrame:    db.CountLastFrame,
			CountCurrentFrame: db.CountCurrentFrame,
			CountTotal:        db.CountTotal,
			ClockLastFrame:    db.ClockLastFrame,
			ClockCurrentFrame: db.ClockCurrentFrame,
			ClockTotal:        db.ClockTotal,
			Active:            db.Active != 0,
		}
	}
	return blocks, nil
}

func readV0(r *bytes.Reader, reg *Registry) ([]Block, error) {
	blocks := make([]Block, reg.Len())
	for i := range blocks {
		var lb legacyBlock
		if err := binary.Read(r, binary.LittleEndian, &lb); err != nil {
			return nil, fmt.Errorf("prof: legacy block %d: %w", i, err)
		}
		blocks[i] = Block{
			Name:              reg.String(Name(i)),
			CountLastFrame:    lb.CountLastFrame,
			CountCurrentFrame: lb.CountCurrentFrame,
			CountTotal:        lb.CountTotal,
			ClockLastFrame:    float64(lb.ClockLastFrame),
			ClockCurrentFrame: float64(lb.ClockCurrentFrame),
			ClockTotal:        float64(lb.ClockTotal),
			Active:            lb.Active != 0,
		}
	}
	return blocks, nil
}

// Persist writes blocks to path via a temporary file and a rename.
func Persist(path string, blocks []Block) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("prof: persist %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, blocks); err != nil {
		tmp.Close()
		return fmt.Errorf("prof: persist %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prof: persist %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("prof: persist %s: %w", path, err)
	}
	return nil
}

// LoadFile reads the record at path into a Table tagged with path.
func LoadFile(path string, reg *Registry) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("prof: open %s: %w", path, err)
	}
	defer f.Close()

	blocks, err := Read(f, reg)
	if err != nil {
		return Table{}, fmt.Errorf("prof: load %s: %w", path, err)
	}
	return Table{Source: path, Blocks: blocks}, nil
}
