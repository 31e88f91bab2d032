// Package snapshot implements a binary export format for learned spatial
// pooler state. The core library owns no persistence; this codec is the CLI
// host's serialization, layered entirely on the pooler's public snapshot
// surface.
package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/htm-project/htm-core/internal/cortical/spatial"
)

// Binary format constants.
const (
	MagicBytes    = "HTMS"
	FormatVersion = 1
)

// Header prefixes every snapshot file.
type Header struct {
	Magic    [4]byte
	Version  uint16
	Flags    uint16
	DataLen  uint64
	Checksum uint32
}

// Header flags.
const (
	FlagCompressed uint16 = 1 << 0
)

// Codec handles encoding and decoding of pooler snapshots.
type Codec struct {
	compress  bool
	compLevel int
}

// NewCodec creates a codec; compress enables gzip over the payload when it
// actually shrinks it.
func NewCodec(compress bool) *Codec {
	return &Codec{compress: compress, compLevel: gzip.BestSpeed}
}

// Encode serializes a pooler state to the binary snapshot format.
func (c *Codec) Encode(state *spatial.State) ([]byte, error) {
	data, err := msgpack.Marshal(state)
	if err != nil {
		return nil, err
	}

	var flags uint16
	if c.compress {
		compressed, err := c.compressData(data)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(data) {
			data = compressed
			flags |= FlagCompressed
		}
	}

	header := Header{
		Version:  FormatVersion,
		Flags:    flags,
		DataLen:  uint64(len(data)),
		Checksum: crc32.ChecksumIEEE(data),
	}
	copy(header.Magic[:], MagicBytes)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, header); err != nil {
		return nil, err
	}
	buf.Write(data)
	return buf.Bytes(), nil
}

// Decode parses a binary snapshot back into pooler state.
func (c *Codec) Decode(raw []byte) (*spatial.State, error) {
	header, payload, err := c.readHeader(raw)
	if err != nil {
		return nil, err
	}

	if header.Flags&FlagCompressed != 0 {
		payload, err = c.decompressData(payload)
		if err != nil {
			return nil, err
		}
	}

	state := &spatial.State{}
	if err := msgpack.Unmarshal(payload, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ReadHeader parses and verifies only the snapshot header.
func (c *Codec) ReadHeader(raw []byte) (*Header, error) {
	header, _, err := c.readHeader(raw)
	return header, err
}

func (c *Codec) readHeader(raw []byte) (*Header, []byte, error) {
	reader := bytes.NewReader(raw)
	header := &Header{}
	if err := binary.Read(reader, binary.BigEndian, header); err != nil {
		return nil, nil, errors.New("snapshot too short")
	}
	if string(header.Magic[:]) != MagicBytes {
		return nil, nil, errors.New("not a spatial pooler snapshot")
	}
	if header.Version != FormatVersion {
		return nil, nil, errors.New("unsupported snapshot version")
	}
	payload := make([]byte, header.DataLen)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, nil, errors.New("snapshot payload is truncated")
	}
	if crc32.ChecksumIEEE(payload) != header.Checksum {
		return nil, nil, errors.New("snapshot checksum mismatch")
	}
	return header, payload, nil
}

// WriteFile encodes a state and writes it to path.
func (c *Codec) WriteFile(path string, state *spatial.State) error {
	data, err := c.Encode(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and decodes a snapshot file.
func (c *Codec) ReadFile(path string) (*spatial.State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Decode(raw)
}

func (c *Codec) compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, c.compLevel)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) decompressData(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
