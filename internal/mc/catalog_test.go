package mc_test

import (
	"errors"
	"testing"

	"mcgen/internal/mc"
)

func TestAddSeverityLookup(t *testing.T) {
	c := mc.NewCodeCatalog()
	if err := c.AddSeverity("Fatal=3"); err != nil {
		t.Fatalf("AddSeverity: %v", err)
	}
	v, err := c.SeverityValue("Fatal")
	if err != nil {
		t.Fatalf("SeverityValue: %v", err)
	}
	if v != 3 {
		t.Errorf("SeverityValue(Fatal) = %d, want 3", v)
	}
}

func TestAddSeverityOverwriteKeepsHistory(t *testing.T) {
	c := mc.NewCodeCatalog()
	for _, decl := range []string{"Fatal=1", "Fatal=3"} {
		if err := c.AddSeverity(decl); err != nil {
			t.Fatalf("AddSeverity(%q): %v", decl, err)
		}
	}
	v, err := c.SeverityValue("Fatal")
	if err != nil {
		t.Fatalf("SeverityValue: %v", err)
	}
	if v != 3 {
		t.Errorf("last declaration should win, got %d", v)
	}
	hist := c.SeverityHistory()
	if len(hist) != 2 || hist[0] != "Fatal" || hist[1] != "Fatal" {
		t.Errorf("history = %v, want both occurrences", hist)
	}
}

func TestAddSeverityEmptyIsNoop(t *testing.T) {
	c := mc.NewCodeCatalog()
	if err := c.AddSeverity(""); err != nil {
		t.Fatalf("empty input should be a no-op, got %v", err)
	}
	if len(c.SeverityHistory()) != 0 {
		t.Errorf("history should stay empty, got %v", c.SeverityHistory())
	}
}

func TestAddSeverityMalformed(t *testing.T) {
	c := mc.NewCodeCatalog()
	for _, decl := range []string{"A=1=2", "A", "A=notanumber"} {
		if err := c.AddSeverity(decl); !errors.Is(err, mc.ErrMalformedDeclaration) {
			t.Errorf("AddSeverity(%q) = %v, want ErrMalformedDeclaration", decl, err)
		}
	}
}

func TestAddFacility(t *testing.T) {
	c := mc.NewCodeCatalog()
	if err := c.AddFacility("Runtime=0x2: FACILITY_RUNTIME "); err != nil {
		t.Fatalf("AddFacility: %v", err)
	}
	v, err := c.FacilityValue("Runtime")
	if err != nil {
		t.Fatalf("FacilityValue: %v", err)
	}
	if v != 2 {
		t.Errorf("FacilityValue(Runtime) = %d, want 2", v)
	}
}

func TestAddFacilityMalformed(t *testing.T) {
	c := mc.NewCodeCatalog()
	for _, decl := range []string{"A=1:X:Y", "A=1=2:X", "A=bad:X"} {
		if err := c.AddFacility(decl); !errors.Is(err, mc.ErrMalformedDeclaration) {
			t.Errorf("AddFacility(%q) = %v, want ErrMalformedDeclaration", decl, err)
		}
	}
}

func TestLookupUnknownName(t *testing.T) {
	c := mc.NewCodeCatalog()
	if _, err := c.SeverityValue("Nope"); !errors.Is(err, mc.ErrUnknownName) {
		t.Errorf("SeverityValue(Nope) = %v, want ErrUnknownName", err)
	}
	if _, err := c.FacilityValue("Nope"); !errors.Is(err, mc.ErrUnknownName) {
		t.Errorf("FacilityValue(Nope) = %v, want ErrUnknownName", err)
	}
}

func TestBuiltinDefaults(t *testing.T) {
	c := mc.NewCodeCatalog()
	if v := c.DefaultSeverityValue(); v != 0 {
		t.Errorf("DefaultSeverityValue = %d, want built-in Success 0", v)
	}
	if v := c.DefaultFacilityValue(); v != 0xFFF {
		t.Errorf("DefaultFacilityValue = 0x%X, want built-in Application 0xFFF", v)
	}
}

// The default severity comes from the first declared name, the default
// facility from the second. The asymmetry is observed format behavior.
func TestDeclaredDefaults(t *testing.T) {
	c := mc.NewCodeCatalog()
	for _, decl := range []string{"A=1", "B=2"} {
		if err := c.AddSeverity(decl); err != nil {
			t.Fatalf("AddSeverity(%q): %v", decl, err)
		}
	}
	for _, decl := range []string{"X=0x10", "Y=0x20", "Z=0x30"} {
		if err := c.AddFacility(decl); err != nil {
			t.Fatalf("AddFacility(%q): %v", decl, err)
		}
	}
	if v := c.DefaultSeverityValue(); v != 1 {
		t.Errorf("DefaultSeverityValue = %d, want first declared (A=1)", v)
	}
	if v := c.DefaultFacilityValue(); v != 0x20 {
		t.Errorf("DefaultFacilityValue = 0x%X, want second declared (Y=0x20)", v)
	}
}

func TestDefaultFacilitySingleDeclaration(t *testing.T) {
	c := mc.NewCodeCatalog()
	if err := c.AddFacility("X=0x10"); err != nil {
		t.Fatalf("AddFacility: %v", err)
	}
	if v := c.DefaultFacilityValue(); v != 0xFFF {
		t.Errorf("one declared facility should fall back to Application, got 0x%X", v)
	}
}

func TestNewErrorCodeBounds(t *testing.T) {
	tests := []struct {
		name              string
		id, severity, fac uint32
		wantErr           bool
	}{
		{"all zero", 0, 0, 0, false},
		{"boundary values", 0xFFFF, 3, 0xFFF, false},
		{"id overflow", 0x10000, 0, 0, true},
		{"severity overflow", 0, 4, 0, true},
		{"facility overflow", 0, 0, 0x1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mc.NewErrorCode(tt.id, tt.severity, tt.fac, "X")
			if tt.wantErr {
				if !errors.Is(err, mc.ErrInvalidErrorCode) {
					t.Errorf("want ErrInvalidErrorCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestErrorCodeValuePacking(t *testing.T) {
	code, err := mc.NewErrorCode(0x23, 3, 0x5A, "X")
	if err != nil {
		t.Fatalf("NewErrorCode: %v", err)
	}
	want := uint32(3)<<30 | uint32(0x5A)<<16 | uint32(0x23)
	got := code.Value()
	if got != want {
		t.Fatalf("Value() = 0x%08X, want 0x%08X", got, want)
	}
	// Decomposing by shifts recovers the fields exactly.
	if got>>30 != 3 {
		t.Errorf("severity bits = %d", got>>30)
	}
	if got>>16&0xFFF != 0x5A {
		t.Errorf("facility bits = 0x%X", got>>16&0xFFF)
	}
	if got&0xFFFF != 0x23 {
		t.Errorf("id bits = 0x%X", got&0xFFFF)
	}
}
