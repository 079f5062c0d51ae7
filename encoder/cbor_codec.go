package encoder

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/holmberd/go-zson/zson"
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding sorts map keys, so equal documents
	// always produce equal bytes.
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("encoder: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("encoder: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBORCodec transcodes zson value trees to CBOR.
type CBORCodec struct{}

func (CBORCodec) Marshal(v any) ([]byte, error) {
	zv, err := zson.FromAny(v)
	if err != nil {
		return nil, err
	}
	plain, err := zson.ToAny(zv)
	if err != nil {
		return nil, err
	}
	data, err := cborEnc.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("encoder: cbor marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes into a *zson.Value or an *any. CBOR items with no zson
// counterpart, such as byte strings, are rejected.
func (CBORCodec) Unmarshal(data []byte, out any) error {
	var plain any
	if err := cborDec.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("encoder: cbor unmarshal: %w", err)
	}
	v, err := zson.FromAny(plain)
	if err != nil {
		return err
	}
	return assign(v, out)
}

func (CBORCodec) Name() string { return "cbor" }
