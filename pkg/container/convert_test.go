package container

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	type celsius float64
	type name string

	tests := []struct {
		in      any
		to      reflect.Type
		want    any
		wantErr bool
	}{
		{3.0, reflect.TypeOf(0), 3, false},
		{3.5, reflect.TypeOf(0), nil, true},
		{int64(7), reflect.TypeOf(int16(0)), int16(7), false},
		{40000, reflect.TypeOf(int16(0)), nil, true},
		{-1, reflect.TypeOf(uint8(0)), nil, true},
		{255, reflect.TypeOf(uint8(0)), uint8(255), false},
		{2, reflect.TypeOf(0.0), 2.0, false},
		{2.5, reflect.TypeOf(celsius(0)), celsius(2.5), false},
		{"x", reflect.TypeOf(name("")), name("x"), false},
		{"x", reflect.TypeOf(0), nil, true},
		{true, reflect.TypeOf(false), true, false},
		{1, reflect.TypeOf(false), nil, true},
		{nil, reflect.TypeOf(0), nil, true},
		{nil, reflect.TypeOf([]int(nil)), []int(nil), false},
		{4.0, nil, 4, false},
		{4.5, nil, 4.5, false},
		{5.0, reflect.TypeOf((*any)(nil)).Elem(), 5, false},
		{5, reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), nil, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v to %v", tt.in, tt.to), func(t *testing.T) {
			got, err := Convert(tt.in, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrKeyType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 3, Normalize(3.0))
	assert.Equal(t, 3.25, Normalize(3.25))
	assert.Equal(t, 7, Normalize(int32(7)))
	assert.Equal(t, 9, Normalize(uint16(9)))
	assert.Equal(t, "s", Normalize("s"))
	assert.Nil(t, Normalize(nil))
}

func TestCompareAny(t *testing.T) {
	values := []any{"b", 2.5, nil, true, 1, "a", false, int64(3)}
	sort.Slice(values, func(i, j int) bool { return CompareAny(values[i], values[j]) < 0 })
	assert.Equal(t, []any{nil, false, true, 1, 2.5, int64(3), "a", "b"}, values)

	assert.Equal(t, 0, CompareAny(2, 2.0))
	assert.Equal(t, 0, CompareAny(int16(4), 4))
}

func TestPosition(t *testing.T) {
	pos, err := position(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = position(3.0, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3, ordinal(pos))

	_, err = position(0, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = position(-2, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = position(1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = position(true, 3)
	assert.ErrorIs(t, err, ErrKeyType)
}
