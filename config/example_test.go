package config_test

import (
	"fmt"
	"log"
	"reflect"
	"testing/fstest"

	"github.com/sagarc03/testconfig/config"
)

func ExampleLoad() {
	packaged := fstest.MapFS{
		config.DefaultFileName: {Data: []byte("server.port=5708\n")},
	}

	p, err := config.Load(config.Options{
		FS:         packaged,
		Properties: map[string]string{"server.mode": "store"},
	})
	if err != nil {
		log.Fatal(err)
	}

	port, _ := p.Required("server.port", reflect.TypeFor[int]())
	mode, _ := p.Required("server.mode", reflect.TypeFor[string]())
	fmt.Printf("Port: %d, Mode: %s\n", port, mode)
	// Output: Port: 5708, Mode: store
}

func ExampleConvert() {
	v, err := config.Convert("1,2,3", reflect.TypeFor[[]int]())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v)
	// Output: [1 2 3]
}
