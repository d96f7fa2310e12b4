package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 8080, 8080},
		{"9090", 8080, 9090},
		{"90a", 8080, 8080},
		{"-1", 0, -1},
	}
	for _, c := range cases {
		if got := ParseIntDefault(c.in, c.def); got != c.want {
			t.Fatalf("ParseIntDefault(%q, %d) = %d, want %d", c.in, c.def, got, c.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(100, 200, 4096); got != 200 {
		t.Fatalf("got %d", got)
	}
	if got := ClampInt(5000, 200, 4096); got != 4096 {
		t.Fatalf("got %d", got)
	}
	if got := ClampInt(640, 200, 4096); got != 640 {
		t.Fatalf("got %d", got)
	}
}
