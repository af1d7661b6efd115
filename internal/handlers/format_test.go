package handlers

import (
	"math"
	"testing"
)

func TestFormatHelpers(t *testing.T) {
	cases := []struct {
		name string
		fn   func(float64) string
		in   float64
		want string
	}{
		{"one decimal rounds half up", oneDecimal, 4.25, "4.3"},
		{"one decimal drops trailing zero", oneDecimal, 4.0, "4"},
		{"one decimal negative zero", oneDecimal, -0.01, "0"},
		{"whole rounds half away", whole, 2.5, "3"},
		{"whole truncates noise", whole, 199.99999, "200"},
		{"plain strips conversion noise", plain, 108.00000000000001, "108"},
		{"plain keeps fraction", plain, 12.5, "12.5"},
		{"trimmed negative zero", trimmed, math.Copysign(0, -1), "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.in); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
