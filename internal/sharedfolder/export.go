package sharedfolder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

const exportFileMode = 0o644

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstd.Encoder and zstd.Decoder are safe for concurrent EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("sharedfolder: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("sharedfolder: zstd decoder initialization failed: " + err.Error())
	}
}

// encodeExport renders events as NDJSON, zstd-compressed when compress is
// set.
func encodeExport(events []models.Event, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return nil, fmt.Errorf("encode event %s: %w", ev.ID, err)
		}
	}
	if compress {
		return zstdEncoder.EncodeAll(buf.Bytes(), nil), nil
	}
	return buf.Bytes(), nil
}

// decodeExport parses an export written by encodeExport. Compression is
// detected from the zstd magic bytes. A malformed line is an IntegrityError.
func decodeExport(source string, data []byte) ([]models.Event, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		plain, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, &models.IntegrityError{Source: source, Reason: "corrupt zstd export", Err: err}
		}
		data = plain
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	events := make([]models.Event, 0)
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var ev models.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, &models.IntegrityError{Source: source, Line: line, Reason: "malformed export record", Err: err}
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, &models.IntegrityError{Source: source, Reason: "unreadable export", Err: err}
	}
	return events, nil
}

func writeExport(path string, events []models.Event, compress bool) error {
	data, err := encodeExport(events, compress)
	if err != nil {
		return err
	}
	if err = utils.WriteFileAtomic(path, data, exportFileMode); err != nil {
		return &models.StorageError{Op: "write export", Path: path, Err: err}
	}
	return nil
}

func readExport(path string) ([]models.Event, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoExport
	}
	if err != nil {
		return nil, &models.StorageError{Op: "read export", Path: path, Err: err}
	}
	return decodeExport(path, data)
}
