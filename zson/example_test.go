package zson_test

import (
	"bytes"
	"fmt"

	"github.com/holmberd/go-zson/zson"
)

func ExampleMarshal() {
	data, err := zson.Marshal(map[string]any{"a": 1})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", data)
	// Output: fe 01 61 ff ff
}

func ExampleUnmarshal() {
	v, err := zson.Unmarshal([]byte{0xfd, 0x01, 0x02, 0x03, 0xff})
	if err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output: [1 2 3]
}

func ExampleListFunc() {
	var buf bytes.Buffer
	enc := zson.NewEncoder(&buf)
	err := enc.Encode(zson.ListFunc(func(e *zson.Encoder) error {
		for i := range 3 {
			if err := e.Encode(i * 100); err != nil {
				return err
			}
		}
		return nil
	}))
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", buf.Bytes())
	// Output: fd 00 80 64 80 c8 ff
}
