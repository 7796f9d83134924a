package joblock_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ezraisw/joblock"
	"github.com/ezraisw/joblock/codec/json"
	"github.com/ezraisw/joblock/codec/msgpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountRef struct {
	id string
}

func (a accountRef) Key() (string, error) {
	return "account/" + a.id, nil
}

type badKeyable string

func (t badKeyable) Key() (string, error) {
	return "", errMock
}

func TestCodecKeyFuncFormat(t *testing.T) {
	keyFunc := joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec())

	key, err := keyFunc("SendInvoice", []interface{}{42, "eur"})
	require.NoError(t, err)
	assert.Equal(t, `lock:SendInvoice-[42,"eur"]`, key)

	key, err = keyFunc("SendInvoice", nil)
	require.NoError(t, err)
	assert.Equal(t, `lock:SendInvoice-[]`, key)
}

func TestCodecKeyFuncDeterministic(t *testing.T) {
	for _, c := range []struct {
		name    string
		keyFunc joblock.KeyFunc
	}{
		{"json", joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec())},
		{"msgpack", joblock.CodecKeyFunc(joblock.PrefixDefault, msgpack.NewCodec())},
		{"digest", joblock.DigestKeyFunc(joblock.PrefixDefault, msgpack.NewCodec())},
	} {
		t.Run(c.name, func(t *testing.T) {
			args := func() []interface{} {
				return []interface{}{
					1,
					"two",
					map[string]interface{}{"z": 1, "a": 2, "m": []interface{}{"x", 3}},
				}
			}

			first, err := c.keyFunc("Job", args())
			require.NoError(t, err)
			for i := 0; i < 20; i++ {
				again, err := c.keyFunc("Job", args())
				require.NoError(t, err)
				assert.Equal(t, first, again)
			}
			assert.True(t, strings.HasPrefix(first, "lock:Job-"))
		})
	}
}

func TestSymbolsKeyLikeStrings(t *testing.T) {
	keyFunc := joblock.CodecKeyFunc(joblock.PrefixDefault, msgpack.NewCodec())

	cases := []struct {
		symbolic []interface{}
		plain    []interface{}
	}{
		{
			symbolic: []interface{}{joblock.Symbol("daily"), 7},
			plain:    []interface{}{"daily", 7},
		},
		{
			symbolic: []interface{}{[]interface{}{joblock.Symbol("a"), joblock.Symbol("b")}},
			plain:    []interface{}{[]interface{}{"a", "b"}},
		},
		{
			symbolic: []interface{}{[]joblock.Symbol{"a", "b"}},
			plain:    []interface{}{[]string{"a", "b"}},
		},
		{
			symbolic: []interface{}{map[joblock.Symbol]interface{}{"mode": joblock.Symbol("full")}},
			plain:    []interface{}{map[string]interface{}{"mode": "full"}},
		},
	}

	for _, c := range cases {
		symbolic, err := keyFunc("Report", c.symbolic)
		require.NoError(t, err)
		plain, err := keyFunc("Report", c.plain)
		require.NoError(t, err)
		assert.Equal(t, plain, symbolic)
	}
}

func TestDifferentArgumentsDifferentKeys(t *testing.T) {
	keyFuncs := map[string]joblock.KeyFunc{
		"json":   joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec()),
		"digest": joblock.DigestKeyFunc(joblock.PrefixDefault, msgpack.NewCodec()),
	}

	argSets := [][]interface{}{
		{},
		{"a b"},
		{"a", "b"},
		{"a", "b", nil},
		{1},
		{"1"},
		{[]interface{}{1, 2}},
		{1, 2},
		{"\xff"},
		{"\xfe"},
		{"\x00xff"},
		{"\x00s\xff"},
		{map[string]interface{}{"\xff": 1}},
		{map[string]interface{}{"\xfe": 1}},
	}

	for name, keyFunc := range keyFuncs {
		t.Run(name, func(t *testing.T) {
			seen := make(map[string]int)
			for i, args := range argSets {
				key, err := keyFunc("Job", args)
				require.NoError(t, err)
				if prev, ok := seen[key]; ok {
					t.Fatalf("args #%d and #%d share key %s", prev, i, key)
				}
				seen[key] = i
			}

			other, err := keyFunc("OtherJob", argSets[1])
			require.NoError(t, err)
			_, clash := seen[other]
			assert.False(t, clash)
		})
	}
}

func TestKeyableArguments(t *testing.T) {
	keyFunc := joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec())

	key, err := keyFunc("Sync", []interface{}{accountRef{id: "7"}})
	require.NoError(t, err)
	assert.Equal(t, `lock:Sync-["account/7"]`, key)

	_, err = keyFunc("Sync", []interface{}{badKeyable("bad")})
	assert.True(t, errors.Is(err, errMock))
}

func TestNameKeyFuncIgnoresArguments(t *testing.T) {
	keyFunc := joblock.NameKeyFunc(joblock.PrefixDefault)

	a, err := keyFunc("Rebuild", []interface{}{1})
	require.NoError(t, err)
	b, err := keyFunc("Rebuild", []interface{}{2, "x"})
	require.NoError(t, err)

	assert.Equal(t, "lock:Rebuild", a)
	assert.Equal(t, a, b)
}

func TestSubsetKeyFunc(t *testing.T) {
	keyFunc := joblock.SubsetKeyFunc(joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec()), 0, 2)

	a, err := keyFunc("Import", []interface{}{"tenant-1", "run-1", "csv"})
	require.NoError(t, err)
	b, err := keyFunc("Import", []interface{}{"tenant-1", "run-2", "csv"})
	require.NoError(t, err)
	c, err := keyFunc("Import", []interface{}{"tenant-2", "run-1", "csv"})
	require.NoError(t, err)

	assert.Equal(t, `lock:Import-["tenant-1","csv"]`, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	short, err := keyFunc("Import", []interface{}{"tenant-1"})
	require.NoError(t, err)
	assert.Equal(t, `lock:Import-["tenant-1",null]`, short)
}

func TestMsgpackKeysAreHexEncoded(t *testing.T) {
	keyFunc := joblock.CodecKeyFunc("lock:", msgpack.NewCodec())

	key, err := keyFunc("Job", []interface{}{"x"})
	require.NoError(t, err)

	encoded := strings.TrimPrefix(key, "lock:Job-")
	// fixarray(1), fixstr(1), 'x'
	assert.Equal(t, "91a178", encoded)
}

func TestInvalidUTF8KeepsEveryByte(t *testing.T) {
	keyFunc := joblock.CodecKeyFunc(joblock.PrefixDefault, json.NewCodec())

	a, err := keyFunc("Job", []interface{}{"\xff"})
	require.NoError(t, err)
	b, err := keyFunc("Job", []interface{}{"\xfe"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "\\ufffd")
	assert.Equal(t, `lock:Job-["\u0000xff"]`, a)

	// Valid strings that look escaped are escaped again.
	c, err := keyFunc("Job", []interface{}{"\x00xff"})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	// Map keys go through the same escaping, so they never merge.
	d, err := keyFunc("Job", []interface{}{map[string]interface{}{"\xff": 1, "\xfe": 2}})
	require.NoError(t, err)
	assert.Equal(t, `lock:Job-[{"\u0000xfe":2,"\u0000xff":1}]`, d)
}
