package encoder

import "github.com/holmberd/go-zson/zson"

// ZSONCodec encodes values in the zson wire format.
type ZSONCodec struct {
	Options []zson.Option
}

func (c ZSONCodec) Marshal(v any) ([]byte, error) {
	return zson.Marshal(v, c.Options...)
}

// Unmarshal decodes a single value into out, a *zson.Value or an *any.
func (c ZSONCodec) Unmarshal(data []byte, out any) error {
	v, err := zson.Unmarshal(data, c.Options...)
	if err != nil {
		return err
	}
	return assign(v, out)
}

func (ZSONCodec) Name() string { return "zson" }
