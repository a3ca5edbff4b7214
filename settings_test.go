package multisource

import "testing"

func TestClampSources(t *testing.T) {
	tests := []struct {
		in   int64
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{4, 4},
		{MaxSources, MaxSources},
		{11, MaxSources},
		{1 << 40, MaxSources},
	}
	for _, tt := range tests {
		if got := ClampSources(tt.in); got != tt.want {
			t.Errorf("ClampSources(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSourceKey(t *testing.T) {
	if got := SourceKey(0); got != "src0" {
		t.Errorf("SourceKey(0) = %q", got)
	}
	if got := SourceKey(MaxSources - 1); got != "src9" {
		t.Errorf("SourceKey(9) = %q", got)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s := LoadSettings(MapData{})
	if s.NumSources != DefaultSources {
		t.Errorf("NumSources = %d, want %d", s.NumSources, DefaultSources)
	}
	if s.Effect != "" || s.BypassCache {
		t.Errorf("unexpected defaults: %v", s)
	}

	d := MapData{KeyNumSources: 5}
	Defaults(d)
	if got := d.Int(KeyNumSources); got != 5 {
		t.Errorf("Defaults overwrote n_src: %d", got)
	}
	if !d.Has(KeyBypassCache) {
		t.Error("Defaults did not set bypass_cache")
	}

	d = MapData{}
	Defaults(d)
	if got := d.Int(KeyNumSources); got != DefaultSources {
		t.Errorf("default n_src = %d, want %d", got, DefaultSources)
	}
}

func TestLoadSettingsClamps(t *testing.T) {
	for _, n := range []int64{0, -3} {
		if got := LoadSettings(MapData{KeyNumSources: n}).NumSources; got != 1 {
			t.Errorf("n_src=%d loaded as %d, want 1", n, got)
		}
	}
	if got := LoadSettings(MapData{KeyNumSources: int64(11)}).NumSources; got != MaxSources {
		t.Errorf("n_src=11 loaded as %d, want %d", got, MaxSources)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	want := Settings{
		Effect:      "/fx/a.wgsl",
		BypassCache: true,
		NumSources:  3,
		Sources:     sources("cam", "", "screen"),
	}
	d := MapData{}
	want.Save(d)
	if got := LoadSettings(d); got != want {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestSettingsActive(t *testing.T) {
	s := Settings{NumSources: 2, Sources: sources("a", "b", "c")}
	got := s.Active()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Active() = %q", got)
	}
	if s.String() == "" {
		t.Error("String() is empty")
	}
}

func TestMapDataTypes(t *testing.T) {
	d := MapData{"i": 3, "i32": int32(4), "i64": int64(5), "s": "x", "b": true, "bad": "7"}
	for key, want := range map[string]int64{"i": 3, "i32": 4, "i64": 5, "bad": 0, "missing": 0} {
		if got := d.Int(key); got != want {
			t.Errorf("Int(%q) = %d, want %d", key, got, want)
		}
	}
	if d.String("s") != "x" || d.String("i") != "" {
		t.Error("String mismatch")
	}
	if !d.Bool("b") || d.Bool("s") {
		t.Error("Bool mismatch")
	}
}
