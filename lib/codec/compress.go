// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressionTag is the first byte of a compressed compact payload.
// These values are protocol constants: changing them breaks every peer
// that reads compressed payloads.
type compressionTag uint8

const (
	tagNone compressionTag = 0
	tagLZ4  compressionTag = 1
	tagZstd compressionTag = 2
)

// maxUncompressedSize bounds the size a compressed frame may claim.
// Larger claims are rejected before allocating.
const maxUncompressedSize = 64 * 1024 * 1024

var errIncompressible = errors.New("data is incompressible")

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

func compressionFor(encoding Encoding) compressionTag {
	switch encoding {
	case CompactZstd:
		return tagZstd
	case CompactLZ4:
		return tagLZ4
	default:
		return tagNone
	}
}

// compress frames payload as [tag][uvarint size][body]. When the
// algorithm cannot shrink the payload the body is stored raw under
// tagNone.
func compress(payload []byte, tag compressionTag) ([]byte, error) {
	var body []byte
	var err error
	switch tag {
	case tagNone:
		body = payload
	case tagLZ4:
		body, err = compressLZ4(payload)
	case tagZstd:
		body, err = compressZstd(payload)
	default:
		return nil, fmt.Errorf("unsupported compression tag %d", tag)
	}
	if errors.Is(err, errIncompressible) {
		tag, body, err = tagNone, payload, nil
	}
	if err != nil {
		return nil, err
	}

	header := make([]byte, 1, 1+binary.MaxVarintLen64+len(body))
	header[0] = byte(tag)
	header = binary.AppendUvarint(header, uint64(len(payload)))
	return append(header, body...), nil
}

func decompress(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, errors.New("empty compressed frame")
	}
	tag := compressionTag(frame[0])
	size, n := binary.Uvarint(frame[1:])
	if n <= 0 {
		return nil, errors.New("invalid uncompressed size header")
	}
	if size > maxUncompressedSize {
		return nil, fmt.Errorf("uncompressed size %d exceeds limit %d", size, maxUncompressedSize)
	}
	body := frame[1+n:]

	switch tag {
	case tagNone:
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("uncompressed body: size %d does not match header %d", len(body), size)
		}
		return body, nil

	case tagLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(body, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if uint64(read) != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil

	case tagZstd:
		result, err := zstdDecoder.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if uint64(len(result)) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}
