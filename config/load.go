package config

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var decoder = newDecoder()

func newDecoder() json.API {
	api := json.Config{DisallowUnknownFields: true}.Froze()
	api.RegisterExtension(new(durationExtension))

	return api
}

// Load reads a JSON file and overlays its values on top of Default().
func Load(path string) (*Config, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	return Decode(fd)
}

// Decode overlays JSON-encoded values on top of Default(). Fields that aren't presented keep
// their default values. Durations are accepted either as Go duration strings ("90s") or as
// nanoseconds.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decoder.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

var _ json.Extension = new(durationExtension)

type durationExtension struct {
	json.DummyExtension
}

func (*durationExtension) CreateDecoder(typ reflect2.Type) json.ValDecoder {
	if typ.Type1() == durationType {
		return durationDecoder{}
	}

	return nil
}

type durationDecoder struct{}

func (durationDecoder) Decode(ptr unsafe.Pointer, iter *json.Iterator) {
	switch iter.WhatIsNext() {
	case json.StringValue:
		d, err := time.ParseDuration(iter.ReadString())
		if err != nil {
			iter.ReportError("decode duration", err.Error())
			return
		}

		*(*time.Duration)(ptr) = d
	case json.NumberValue:
		*(*time.Duration)(ptr) = time.Duration(iter.ReadInt64())
	default:
		iter.Skip()
		iter.ReportError("decode duration", "expected a string or a number")
	}
}
