package configuration

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// CurvePointsHookFunc returns a mapstructure decode hook that accepts three notations for curve points:
//  1. a list of maps: [{temp: 40, speed: 0}, {temp: 60, speed: 1000}]
//  2. a list of pairs: [[40, 0], [60, 1000]]
//  3. a map of temp -> speed: {40: 0, 60: 1000}
//
// List notations keep their order so validation can reject unsorted curves,
// the map notation has no order and is sorted by temperature.
func CurvePointsHookFunc() mapstructure.DecodeHookFuncType {
	curvePointsType := reflect.TypeOf(CurvePoints{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != curvePointsType {
			return data, nil
		}

		switch v := data.(type) {
		case []interface{}:
			return parseCurvePointList(v)
		case map[string]interface{}, map[interface{}]interface{}:
			return parseCurvePointMap(v)
		}
		return data, nil
	}
}

func parseCurvePointList(items []interface{}) (CurvePoints, error) {
	result := make(CurvePoints, 0, len(items))
	for idx, item := range items {
		point, err := parseCurvePoint(item)
		if err != nil {
			return nil, fmt.Errorf("curve point %d: %w", idx, err)
		}
		result = append(result, point)
	}
	return result, nil
}

func parseCurvePoint(item interface{}) (CurvePoint, error) {
	switch v := item.(type) {
	case []interface{}:
		if len(v) != 2 {
			return CurvePoint{}, fmt.Errorf("expected [temp, speed] pair, got %d values", len(v))
		}
		return newCurvePoint(v[0], v[1])
	case map[string]interface{}:
		return newCurvePoint(v["temp"], v["speed"])
	case map[interface{}]interface{}:
		return newCurvePoint(v["temp"], v["speed"])
	case CurvePoint:
		return v, nil
	}
	return CurvePoint{}, fmt.Errorf("unsupported curve point type %T", item)
}

func parseCurvePointMap(data interface{}) (CurvePoints, error) {
	var result CurvePoints
	appendPoint := func(k, v interface{}) error {
		point, err := newCurvePoint(k, v)
		if err != nil {
			return fmt.Errorf("curve point %v: %w", k, err)
		}
		result = append(result, point)
		return nil
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for k, val := range v {
			if err := appendPoint(k, val); err != nil {
				return nil, err
			}
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			if err := appendPoint(k, val); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Temp < result[j].Temp
	})
	return result, nil
}

func newCurvePoint(temp interface{}, speed interface{}) (CurvePoint, error) {
	t, err := anyToInt(temp)
	if err != nil {
		return CurvePoint{}, fmt.Errorf("invalid temp: %w", err)
	}
	s, err := anyToInt(speed)
	if err != nil {
		return CurvePoint{}, fmt.Errorf("invalid speed: %w", err)
	}
	return CurvePoint{Temp: t, Speed: s}, nil
}

// anyToInt converts numeric and string values to int.
func anyToInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("%v is not a whole number", val)
		}
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int: %w", val, err)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
