package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/helixdb/helix-core/pkg/value"
)

// parseProps turns "key=value" pairs from --prop flags into an Object,
// sniffing each value as a bool, an integer, a float, and finally a
// plain string.
func parseProps(pairs []string) (*value.Object, error) {
	obj := value.NewObject()
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --prop %q, expected key=value", p)
		}
		obj.Set(k, sniffValue(v))
	}
	return obj, nil
}

func sniffValue(s string) value.Value {
	if b, err := strconv.ParseBool(s); err == nil {
		return value.Bool(b)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.I64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.F64(f)
	}
	return value.String(s)
}

func printProps(obj *value.Object) {
	if obj == nil {
		return
	}
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		fmt.Printf("  %s: %s\n", k, v.String())
	}
}
