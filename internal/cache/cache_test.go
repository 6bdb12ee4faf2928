package cache

import (
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
)

func TestCacheValidity(t *testing.T) {
	clk := clock.NewMock()
	c := New(2*time.Minute, clk)

	assert.False(t, c.IsValid(KeyEmpleados))

	c.Set(KeyEmpleados, []string{"Ana"})
	assert.True(t, c.IsValid(KeyEmpleados))

	clk.Add(time.Minute + 59*time.Second)
	assert.True(t, c.IsValid(KeyEmpleados))

	clk.Add(time.Second)
	assert.False(t, c.IsValid(KeyEmpleados))
}

func TestCacheGetIsTight(t *testing.T) {
	clk := clock.NewMock()
	c := New(time.Minute, clk)

	c.Set(KeyServicios, 42)
	v, ok := c.Get(KeyServicios)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	clk.Add(time.Minute)
	v, ok = c.Get(KeyServicios)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestCacheNilDataIsInvalid(t *testing.T) {
	c := New(time.Minute, clock.NewMock())

	c.Set(KeyRegistros, nil)
	assert.False(t, c.IsValid(KeyRegistros))
}

func TestCacheInvalidate(t *testing.T) {
	testCases := []struct {
		name      string
		keys      []string
		wantValid map[string]bool
	}{
		{
			name: "single key",
			keys: []string{KeyEmpleados},
			wantValid: map[string]bool{
				KeyEmpleados:    false,
				KeyServicios:    true,
				KeyDiasDescanso: true,
			},
		},
		{
			name: "several keys",
			keys: []string{KeyEmpleados, KeyDiasDescanso},
			wantValid: map[string]bool{
				KeyEmpleados:    false,
				KeyServicios:    true,
				KeyDiasDescanso: false,
			},
		},
		{
			name: "all keys",
			keys: nil,
			wantValid: map[string]bool{
				KeyEmpleados:    false,
				KeyServicios:    false,
				KeyDiasDescanso: false,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(time.Minute, clock.NewMock())
			for key := range tc.wantValid {
				c.Set(key, key)
			}

			c.Invalidate(tc.keys...)

			for key, want := range tc.wantValid {
				assert.Equal(t, want, c.IsValid(key), key)
			}
		})
	}
}

func TestCacheSetAfterInvalidate(t *testing.T) {
	c := New(time.Minute, clock.NewMock())

	c.Set(KeyFaltas, "old")
	c.Invalidate(KeyFaltas)
	c.Set(KeyFaltas, "new")

	v, ok := Lookup[string](c, KeyFaltas)
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestLookupTypeMismatch(t *testing.T) {
	c := New(time.Minute, clock.NewMock())
	c.Set(KeyEmpleados, []int{1})

	_, ok := Lookup[[]string](c, KeyEmpleados)
	assert.False(t, ok)

	v, ok := Lookup[[]int](c, KeyEmpleados)
	assert.True(t, ok)
	assert.Equal(t, []int{1}, v)
}
