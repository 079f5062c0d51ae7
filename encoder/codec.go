// Package encoder provides the byte codecs a document store persists values
// with. Every codec speaks zson value trees; ZSONCodec writes them in the
// zson wire format, the others transcode them for interop.
package encoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holmberd/go-zson/zson"
)

// ErrUnsupportedTarget is returned by Unmarshal when out is not a pointer
// type the codec can fill.
var ErrUnsupportedTarget = errors.New("encoder: unsupported unmarshal target")

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, out any) error
	// Name identifies the codec, e.g. "zson" or "cbor+zstd".
	Name() string
}

var (
	codecs = map[string]Codec{
		"zson":  ZSONCodec{},
		"proto": ProtoCodec{},
		"cbor":  CBORCodec{},
	}
	compressors = map[string]Compressor{
		"lz4":  LZ4Compressor{},
		"zstd": ZstdCompressor{},
	}
)

// ByName returns the codec registered under name. A compressor may be
// appended with a plus sign, as in "zson+lz4".
func ByName(name string) (Codec, bool) {
	base, comp, compressed := strings.Cut(name, "+")
	c, ok := codecs[base]
	if !ok {
		return nil, false
	}
	if !compressed {
		return c, true
	}
	z, ok := compressors[comp]
	if !ok {
		return nil, false
	}
	return Compress(c, z), true
}

// assign stores v into out, which must be a *zson.Value or an *any. An *any
// receives plain Go values as produced by zson.ToAny.
func assign(v zson.Value, out any) error {
	switch p := out.(type) {
	case *zson.Value:
		*p = v
		return nil
	case *any:
		a, err := zson.ToAny(v)
		if err != nil {
			return err
		}
		*p = a
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedTarget, out)
}
