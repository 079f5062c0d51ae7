package encoder

import (
	"fmt"

	"github.com/holmberd/go-zson/zson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoCodec persists values as a binary google.protobuf.Value.
type ProtoCodec struct{}

// Marshal accepts a *structpb.Value or anything zson.FromAny accepts.
func (ProtoCodec) Marshal(v any) ([]byte, error) {
	pv, ok := v.(*structpb.Value)
	if !ok {
		zv, err := zson.FromAny(v)
		if err != nil {
			return nil, err
		}
		if pv, err = ToProto(zv); err != nil {
			return nil, err
		}
	}
	data, err := proto.Marshal(pv)
	if err != nil {
		return nil, fmt.Errorf("encoder: proto marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes into a *structpb.Value, a *zson.Value or an *any.
func (ProtoCodec) Unmarshal(data []byte, out any) error {
	pv, direct := out.(*structpb.Value)
	if !direct {
		pv = &structpb.Value{}
	}
	if err := proto.Unmarshal(data, pv); err != nil {
		return fmt.Errorf("encoder: proto unmarshal: %w", err)
	}
	if direct {
		return nil
	}
	v, err := FromProto(pv)
	if err != nil {
		return err
	}
	return assign(v, out)
}

func (ProtoCodec) Name() string { return "proto" }
