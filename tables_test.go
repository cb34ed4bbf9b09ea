package taxreform

import (
	"strings"
	"testing"
)

func TestDecodeTables(t *testing.T) {
	yml := `
reform:
  cbs: 9.3
simplified:
  current:
    3: {1: 9, 2: 15, 3: 17}
  reductions:
    3: 30
`
	tables, err := DecodeTables(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("DecodeTables() failed: %v", err)
	}

	if got := tables.Reform.CBS; !got.Equal(P(9.3)) {
		t.Errorf("reform cbs: got %v, want 9.3%%", got)
	}
	// untouched values keep their defaults.
	if got := tables.Reform.IBS; !got.Equal(P(17.7)) {
		t.Errorf("reform ibs: got %v, want 17.7%%", got)
	}
	if got := tables.Simplified.Current[Services][LucroPresumido]; !got.Equal(P(15)) {
		t.Errorf("services presumido: got %v, want 15%%", got)
	}
	if got := tables.Simplified.Current[Industry][LucroReal]; !got.Equal(P(12)) {
		t.Errorf("industry real: got %v, want 12%%", got)
	}
	if got := tables.Simplified.Reductions[Agribusiness]; !got.Equal(P(40)) {
		t.Errorf("agribusiness reduction: got %v, want 40%%", got)
	}
	if got := tables.Simplified.Reductions[Services]; !got.Equal(P(30)) {
		t.Errorf("services reduction: got %v, want 30%%", got)
	}
}

func TestDecodeTables_Empty(t *testing.T) {
	tables, err := DecodeTables(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeTables() failed: %v", err)
	}
	if got := tables.Reform.Selective; !got.Equal(P(1)) {
		t.Errorf("selective: got %v, want 1%%", got)
	}
}

func TestDecodeTables_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		yml     string
		wantErr string
	}{
		{
			name:    "unknown field",
			yml:     "reform:\n  vat: 20\n",
			wantErr: "field vat not found",
		},
		{
			name:    "not a number",
			yml:     "reform:\n  cbs: high\n",
			wantErr: "cannot decode tables",
		},
		{
			name:    "missing default activity",
			yml:     "simplified:\n  current:\n    2: {2: 8}\n",
			wantErr: "no rate for default activity",
		},
		{
			name:    "reduction out of range",
			yml:     "simplified:\n  reductions:\n    1: 120\n",
			wantErr: "out of [0%, 100%]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTables(strings.NewReader(tc.yml))
			if err == nil {
				t.Fatal("expected an error, but got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error to contain %q, but got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoadTables_Default(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatalf("LoadTables() failed: %v", err)
	}
	if got := tables.Reform.CBS; !got.Equal(P(8.8)) {
		t.Errorf("cbs: got %v, want 8.8%%", got)
	}
	if _, err := LoadTables("does-not-exist.yaml"); err == nil {
		t.Error("LoadTables(does-not-exist.yaml): want an error")
	}
}
