package stubservice

import (
	"strings"
	"testing"
)

func TestReadFASTA(t *testing.T) {
	input := `>BRCA1 breast cancer 1
acgtacgt
ACGT

; comment
>TP53
GGGCCC
`
	got, err := ReadFASTA(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFASTA failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got["BRCA1"] != "ACGTACGTACGT" {
		t.Errorf("BRCA1 = %q", got["BRCA1"])
	}
	if got["TP53"] != "GGGCCC" {
		t.Errorf("TP53 = %q", got["TP53"])
	}
}

func TestReadFASTA_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "data before header", input: "ACGT\n>X\nACGT\n"},
		{name: "empty header", input: ">\nACGT\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadFASTA(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
