package session

import (
	"errors"
	"testing"
)

func TestNewRegion(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		seqLen  int
		want    Region
		wantErr bool
	}{
		{name: "full sequence", start: 0, end: 100, seqLen: 100, want: Region{0, 100}},
		{name: "inner window", start: 10, end: 40, seqLen: 100, want: Region{10, 40}},
		{name: "empty window", start: 20, end: 20, seqLen: 100, want: Region{20, 20}},
		{name: "negative start", start: -1, end: 40, seqLen: 100, wantErr: true},
		{name: "end past sequence", start: 0, end: 101, seqLen: 100, wantErr: true},
		{name: "start after end", start: 50, end: 40, seqLen: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRegion(tt.start, tt.end, tt.seqLen)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRegion) {
					t.Fatalf("NewRegion() error = %v, want ErrInvalidRegion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRegion() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NewRegion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRegionLenAndString(t *testing.T) {
	r := Region{Start: 5, End: 25}
	if r.Len() != 20 {
		t.Errorf("Len() = %d, want 20", r.Len())
	}
	if r.String() != "5-25" {
		t.Errorf("String() = %q, want %q", r.String(), "5-25")
	}
	if FullRegion(42) != (Region{0, 42}) {
		t.Errorf("FullRegion(42) = %+v", FullRegion(42))
	}
}
