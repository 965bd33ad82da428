package etag_test

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/etagops/etag"
)

func ExampleFromBytes() {
	tag := etag.FromBytes([]byte("123456789"))
	fmt.Println(tag)
	// Output:
	// W/"995DC9BBDF1939FA"
}

func ExampleFromReader() {
	tag, err := etag.FromReader(strings.NewReader("123456789"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(tag.Value)
	// Output:
	// 995DC9BBDF1939FA
}

func ExampleTag_WeakEqual() {
	cached := etag.FromBytes([]byte("payload"))
	claimed, _ := etag.Parse(cached.String())
	fmt.Println(cached.WeakEqual(claimed))
	// Output:
	// true
}
