package main

import "testing"

func TestValidAddr(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:8080", true},
		{":8080", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, c := range cases {
		if got := validAddr(c.addr); got != c.want {
			t.Errorf("validAddr(%q) = %v, want %v", c.addr, got, c.want)
		}
	}
}
