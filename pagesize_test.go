package offsetpager

import "testing"

func Test_IsNormalizedPageSizeMax(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		max      int
		want     int
		isStrict bool
	}{
		{"zero uses default", 0, 50, DefaultPageSize, false},
		{"negative uses default", -10, 50, DefaultPageSize, false},
		{"within max unchanged", 7, 50, 7, true},
		{"equal max unchanged", 50, 50, 50, true},
		{"above max clamped", 51, 50, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := IsNormalizedPageSizeMax(tt.pageSize, tt.max)
			if got != tt.want || strict != tt.isStrict {
				t.Errorf("%s: got=(%d,%v) want=(%d,%v)", tt.name, got, strict, tt.want, tt.isStrict)
			}
		})
	}
}

func Test_NormalizePageSizeMax(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		max      int
		want     int
	}{
		{"zero -> default", 0, 77, DefaultPageSize},
		{"negative -> default", -3, 77, DefaultPageSize},
		{"clamp to max", 1000, 77, 77},
		{"keep when ok", 12, 77, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePageSizeMax(tt.pageSize, tt.max); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}

func Test_NormalizePageSize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero -> default", 0, DefaultPageSize},
		{"negative -> default", -1, DefaultPageSize},
		{"clamp to MaxPageSize", MaxPageSize + 1, MaxPageSize},
		{"keep when ok", 17, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePageSize(tt.pageSize); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}
