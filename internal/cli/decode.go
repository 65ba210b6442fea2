package cli

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/network"
)

var (
	curatedEntryType = reflect.TypeOf(model.CuratedEntry{})
	assignmentType   = reflect.TypeOf(model.Assignment{})
)

// strictDecoding turns off viper's weak typing so a factor written as 1 or
// "yes" is an error rather than a coerced bool. Environment values are
// always strings, so basic types are still parsed from strings explicitly.
func strictDecoding(dc *mapstructure.DecoderConfig) {
	dc.WeaklyTypedInput = false
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		factorValuesHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToBasicTypeHookFunc(),
	)
}

// factorValuesHook rejects curated factor tuples and assignments holding
// anything but literal booleans. It runs before the string conversions.
func factorValuesHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map {
		return data, nil
	}
	fields, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}

	switch to {
	case curatedEntryType:
		values, ok := fields["factors"].([]any)
		if !ok {
			return data, nil
		}
		for i, v := range values {
			if _, ok := v.(bool); !ok {
				return nil, fmt.Errorf("%w: factor %d is %T %v, expected true or false", network.ErrMalformedEntry, i, v, v)
			}
		}
	case assignmentType:
		for key, v := range fields {
			if _, ok := v.(bool); !ok {
				return nil, fmt.Errorf("%w: factor %s is %T %v, expected true or false", model.ErrInvalidConfig, key, v, v)
			}
		}
	}
	return data, nil
}
