package joblock

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/ezraisw/joblock/codec"
)

// PrefixDefault keeps lock records apart from unrelated keys in the store.
const PrefixDefault = "lock:"

const escapeMarker = "\x00"

// CodecKeyFunc derives "<prefix><name>-<encoded args>".
// Encodings that are not valid UTF-8 (msgpack) are hex encoded.
func CodecKeyFunc(prefix string, c codec.Codec) KeyFunc {
	return func(name string, args []interface{}) (string, error) {
		data, err := encodeArgs(c, args)
		if err != nil {
			return "", err
		}

		if !utf8.Valid(data) {
			return prefix + name + "-" + hex.EncodeToString(data), nil
		}
		return prefix + name + "-" + string(data), nil
	}
}

// DigestKeyFunc derives "<prefix><name>-<sha1 of encoded args>", for jobs with large arguments.
func DigestKeyFunc(prefix string, c codec.Codec) KeyFunc {
	return func(name string, args []interface{}) (string, error) {
		data, err := encodeArgs(c, args)
		if err != nil {
			return "", err
		}

		sum := sha1.Sum(data)
		return prefix + name + "-" + hex.EncodeToString(sum[:]), nil
	}
}

// NameKeyFunc ignores arguments, so at most one job of the type runs at a time.
func NameKeyFunc(prefix string) KeyFunc {
	return func(name string, _ []interface{}) (string, error) {
		return prefix + name, nil
	}
}

// SubsetKeyFunc narrows the arguments to the given positions before handing them to base.
// Positions past the end are keyed as nil.
func SubsetKeyFunc(base KeyFunc, indexes ...int) KeyFunc {
	return func(name string, args []interface{}) (string, error) {
		subset := make([]interface{}, len(indexes))
		for i, idx := range indexes {
			if idx >= 0 && idx < len(args) {
				subset[i] = args[idx]
			}
		}
		return base(name, subset)
	}
}

func encodeArgs(c codec.Codec, args []interface{}) ([]byte, error) {
	normalized, err := normalizeArgs(args)
	if err != nil {
		return nil, err
	}
	return c.Marshal(normalized)
}

func normalizeArgs(args []interface{}) ([]interface{}, error) {
	// Never nil, no arguments and an empty list are the same job.
	normalized := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := normalize(arg)
		if err != nil {
			return nil, err
		}
		normalized[i] = v
	}
	return normalized, nil
}

func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case Keyable:
		key, err := t.Key()
		if err != nil {
			return nil, err
		}
		return escapeString(key), nil
	case string:
		return escapeString(t), nil
	case Symbol:
		return escapeString(string(t)), nil
	case []string:
		s := make([]string, len(t))
		for i, str := range t {
			s[i] = escapeString(str)
		}
		return s, nil
	case []Symbol:
		s := make([]string, len(t))
		for i, sym := range t {
			s[i] = escapeString(string(sym))
		}
		return s, nil
	case []interface{}:
		return normalizeArgs(t)
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, mv := range t {
			nv, err := normalize(mv)
			if err != nil {
				return nil, err
			}
			m[escapeString(k)] = nv
		}
		return m, nil
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, mv := range t {
			m[escapeString(k)] = escapeString(mv)
		}
		return m, nil
	case map[Symbol]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, mv := range t {
			nv, err := normalize(mv)
			if err != nil {
				return nil, err
			}
			m[escapeString(string(k))] = nv
		}
		return m, nil
	}
	return v, nil
}

// escapeString keeps every byte of s through encoders that only carry UTF-8.
// Invalid strings become "\x00x"+hex, valid strings starting with NUL get "\x00s" in front,
// so distinct strings never share a key.
func escapeString(s string) string {
	if !utf8.ValidString(s) {
		return escapeMarker + "x" + hex.EncodeToString([]byte(s))
	}
	if strings.HasPrefix(s, escapeMarker) {
		return escapeMarker + "s" + s
	}
	return s
}
