package fmtx

import (
	"errors"
	"testing"
)

type fakeStringer struct{}

func (fakeStringer) String() string { return "21.3" }

func TestSprintfSubset(t *testing.T) {
	cases := []struct {
		format string
		args   []any
		want   string
	}{
		{"plain", nil, "plain"},
		{"n=%d", []any{42}, "n=42"},
		{"n=%d", []any{int8(-5)}, "n=-5"},
		{"x=%x", []any{uint16(0xBEEF)}, "x=beef"},
		{"%s/%s", []any{"env", "value"}, "env/value"},
		{"v=%v", []any{true}, "v=true"},
		{"v=%v", []any{fakeStringer{}}, "v=21.3"},
		{"e=%v", []any{errors.New("boom")}, "e=boom"},
		{"100%%", nil, "100%"},
		{"missing %d", nil, "missing %!d"},
		{"bad %q", []any{"x"}, "bad %!q"},
	}
	for _, c := range cases {
		if got := sprintf(c.format, c.args...); got != c.want {
			t.Errorf("sprintf(%q, %v) = %q (want %q)", c.format, c.args, got, c.want)
		}
	}
}
