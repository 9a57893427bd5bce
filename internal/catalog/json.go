package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// ParseJSON reads a JSON array whose elements are either objects with
// "target" and "weight" fields or two-element [target, weight] arrays.
func ParseJSON(data []byte) ([]Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Err: errors.New("invalid JSON")}
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, &ParseError{Err: errors.New("expected a JSON array of entries")}
	}

	var (
		entries  []Entry
		parseErr error
	)
	idx := 0
	root.ForEach(func(_, item gjson.Result) bool {
		idx++
		var target, weight gjson.Result
		switch {
		case item.IsObject():
			target = item.Get("target")
			weight = item.Get("weight")
		case item.IsArray():
			pair := item.Array()
			if len(pair) != 2 {
				parseErr = &ParseError{Line: idx, Err: fmt.Errorf("expected [target, weight], got %d elements", len(pair))}
				return false
			}
			target, weight = pair[0], pair[1]
		default:
			parseErr = &ParseError{Line: idx, Err: fmt.Errorf("unsupported entry %s", item.Raw)}
			return false
		}

		if target.Type != gjson.String || target.String() == "" {
			parseErr = &ParseError{Line: idx, Err: errors.New("target must be a non-empty string")}
			return false
		}
		w, err := jsonWeight(weight)
		if err != nil {
			parseErr = &ParseError{Line: idx, Err: err}
			return false
		}
		entries = append(entries, Entry{Target: target.String(), Weight: w})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}

func jsonWeight(v gjson.Result) (int, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("weight must be a number, got %q", v.Raw)
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("weight must be an integer, got %s", v.Raw)
	}
	w := int(v.Int())
	if w <= 0 {
		return 0, fmt.Errorf("weight must be >= 1, got %d", w)
	}
	return w, nil
}
