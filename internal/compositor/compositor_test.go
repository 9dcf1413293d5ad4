package compositor

import "testing"

func TestTransparentBar(t *testing.T) {
	tests := []struct {
		name     string
		overview bool
		floating []bool
		want     bool
	}{
		{"no windows", false, nil, true},
		{"overview open", true, []bool{false, false}, true},
		{"all floating", false, []bool{true, true}, true},
		{"one tiled", false, []bool{true, false}, false},
		{"single tiled", false, []bool{false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransparentBar(tt.overview, tt.floating); got != tt.want {
				t.Errorf("TransparentBar(%v, %v) = %v, want %v", tt.overview, tt.floating, got, tt.want)
			}
		})
	}
}

func TestSortByIdx(t *testing.T) {
	infos := []WorkspaceInfo{
		{ID: 3, Idx: 2},
		{ID: 9, Idx: 1},
		{ID: 1, Idx: 2},
	}
	SortByIdx(infos)
	want := []WorkspaceID{9, 1, 3}
	for i, id := range want {
		if infos[i].ID != id {
			t.Fatalf("position %d: id %d, want %d", i, infos[i].ID, id)
		}
	}
}

func TestOutputs(t *testing.T) {
	infos := []WorkspaceInfo{
		{Output: "DP-1"}, {Output: ""}, {Output: "HDMI-A-1"}, {Output: "DP-1"},
	}
	got := Outputs(infos)
	if len(got) != 2 || got[0] != "DP-1" || got[1] != "HDMI-A-1" {
		t.Fatalf("Outputs() = %v", got)
	}
}

func TestEqual(t *testing.T) {
	a := []WorkspaceInfo{{ID: 1, IsActive: true}}
	b := []WorkspaceInfo{{ID: 1, IsActive: true}}
	if !Equal(a, b) {
		t.Fatal("expected equal")
	}
	b[0].HasWindows = true
	if Equal(a, b) {
		t.Fatal("expected different")
	}
}
