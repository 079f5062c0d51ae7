package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses whole encoded documents. It does not change the
// codec's format, it only wraps the stored bytes.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// ErrCorruptBlock is returned when a compressed block cannot be decoded.
var ErrCorruptBlock = errors.New("encoder: corrupt compressed block")

// maxBlockSize bounds the decompressed size a block header may announce.
const maxBlockSize = 64 << 20

// LZ4 block layout: [uncompressed size uint32][compressed size uint32][data].
// A compressed size of 0 marks data stored as is.
const lz4HeaderSize = 8

// LZ4Compressor uses LZ4 block compression. It is fast and suits documents
// read on every request.
type LZ4Compressor struct{}

func (LZ4Compressor) Compress(src []byte) ([]byte, error) {
	buf := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, buf[lz4HeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("encoder: lz4 compress: %w", err)
	}
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(src)))
	if n == 0 || n >= len(src) {
		// Incompressible.
		binary.LittleEndian.PutUint32(buf[4:], 0)
		n = copy(buf[lz4HeaderSize:], src)
	} else {
		binary.LittleEndian.PutUint32(buf[4:], uint32(n))
	}
	return buf[:lz4HeaderSize+n], nil
}

func (LZ4Compressor) Decompress(src []byte) ([]byte, error) {
	if len(src) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorruptBlock)
	}
	size := binary.LittleEndian.Uint32(src[0:])
	compressedSize := binary.LittleEndian.Uint32(src[4:])
	data := src[lz4HeaderSize:]
	if size > maxBlockSize {
		return nil, fmt.Errorf("%w: block size %d exceeds limit", ErrCorruptBlock, size)
	}
	if compressedSize == 0 {
		if uint32(len(data)) != size {
			return nil, fmt.Errorf("%w: stored size mismatch", ErrCorruptBlock)
		}
		return append([]byte(nil), data...), nil
	}
	if uint32(len(data)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed size mismatch", ErrCorruptBlock)
	}
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
	}
	if uint32(n) != size {
		return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlock)
	}
	return out, nil
}

func (LZ4Compressor) Name() string { return "lz4" }

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxBlockSize))
}

// ZstdCompressor uses zstd frames. It trades speed for a better ratio than
// LZ4Compressor.
type ZstdCompressor struct{}

func (ZstdCompressor) Compress(src []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("encoder: zstd: %w", err)
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

func (ZstdCompressor) Decompress(src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("encoder: zstd: %w", err)
	}
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
	}
	return out, nil
}

func (ZstdCompressor) Name() string { return "zstd" }

type compressedCodec struct {
	codec Codec
	z     Compressor
}

// Compress returns a codec that compresses the output of c with z.
func Compress(c Codec, z Compressor) Codec {
	return compressedCodec{codec: c, z: z}
}

func (c compressedCodec) Marshal(v any) ([]byte, error) {
	data, err := c.codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.z.Compress(data)
}

func (c compressedCodec) Unmarshal(data []byte, out any) error {
	raw, err := c.z.Decompress(data)
	if err != nil {
		return err
	}
	return c.codec.Unmarshal(raw, out)
}

func (c compressedCodec) Name() string { return c.codec.Name() + "+" + c.z.Name() }
