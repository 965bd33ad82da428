package etagops_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/etagops"
)

func ExampleNew() {
	ctx := context.Background()

	cfg := etagops.DefaultConfig()
	cfg.LogLevel = "error"

	m, err := etagops.New(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer func() { _ = m.Shutdown(ctx) }()

	tag := m.Keys().GetOrInsert(ctx, "greeting:v1", []byte("123456789"))
	fmt.Println(tag)

	for _, s := range m.Stats() {
		fmt.Println(s.Name, s.Len, s.Cap)
	}
	// Output:
	// W/"995DC9BBDF1939FA"
	// keys 1 64
	// files 0 64
}
