package mc

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Severity is a named value for the two severity bits of a code.
type Severity struct {
	Name  string
	Value uint32
}

// Facility is a named value for the twelve facility bits of a code.
// SymbolicName is the optional identifier declared after the value.
type Facility struct {
	Name         string
	Value        uint32
	SymbolicName string
}

// CodeCatalog accumulates everything declared by one message file:
// severity and facility name tables plus the ordered list of codes.
// Re-declaring a name overwrites the table entry (last wins) while the
// declaration-order history keeps every occurrence; the history drives
// the default severity/facility values used by records that omit them.
type CodeCatalog struct {
	severities map[string]Severity
	facilities map[string]Facility

	severityOrder []string
	facilityOrder []string

	codes []ErrorCode
}

// Built-in entries every catalog starts with.
var (
	builtinSeverities = []Severity{
		{Name: "Success", Value: 0},
		{Name: "Informational", Value: 1},
		{Name: "Warning", Value: 2},
		{Name: "Error", Value: 3},
	}
	builtinFacilities = []Facility{
		{Name: "System", Value: 0xFF},
		{Name: "Application", Value: 0xFFF},
	}
)

// NewCodeCatalog returns a catalog pre-seeded with the built-in
// severity and facility tables.
func NewCodeCatalog() *CodeCatalog {
	c := &CodeCatalog{
		severities: make(map[string]Severity, len(builtinSeverities)),
		facilities: make(map[string]Facility, len(builtinFacilities)),
	}
	for _, s := range builtinSeverities {
		c.severities[s.Name] = s
	}
	for _, f := range builtinFacilities {
		c.facilities[f.Name] = f
	}
	return c
}

// AddSeverity registers one Name=Value declaration. Empty input is a no-op.
func (c *CodeCatalog) AddSeverity(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	name, value, err := splitDeclaration(text)
	if err != nil {
		return err
	}
	c.severities[name] = Severity{Name: name, Value: value}
	c.severityOrder = append(c.severityOrder, name)
	return nil
}

// AddFacility registers one Name=Value[:SymbolicName] declaration.
// Empty input is a no-op. All whitespace inside the symbolic name is
// stripped.
func (c *CodeCatalog) AddFacility(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "=")
	if len(parts) != 2 {
		return fmt.Errorf("%w: %q", ErrMalformedDeclaration, text)
	}
	name := strings.TrimSpace(parts[0])
	rest := strings.Split(parts[1], ":")
	if len(rest) > 2 {
		return fmt.Errorf("%w: %q", ErrMalformedDeclaration, text)
	}
	value, err := parseValue(rest[0])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedDeclaration, text)
	}
	symbolic := ""
	if len(rest) == 2 {
		symbolic = strings.Join(strings.Fields(rest[1]), "")
	}
	c.facilities[name] = Facility{Name: name, Value: value, SymbolicName: symbolic}
	c.facilityOrder = append(c.facilityOrder, name)
	return nil
}

// DefaultSeverityValue is the value of the first declared severity, or
// the built-in Success when the file declared none.
func (c *CodeCatalog) DefaultSeverityValue() uint32 {
	if len(c.severityOrder) > 0 {
		return c.severities[c.severityOrder[0]].Value
	}
	return c.severities["Success"].Value
}

// DefaultFacilityValue is the value of the second declared facility, or
// the built-in Application when fewer than two were declared. The
// second-not-first asymmetry matches observed behavior of the format.
func (c *CodeCatalog) DefaultFacilityValue() uint32 {
	if len(c.facilityOrder) >= 2 {
		return c.facilities[c.facilityOrder[1]].Value
	}
	return c.facilities["Application"].Value
}

// SeverityValue resolves a severity name to its numeric value.
func (c *CodeCatalog) SeverityValue(name string) (uint32, error) {
	s, ok := c.severities[name]
	if !ok {
		return 0, fmt.Errorf("%w: severity %q", ErrUnknownName, name)
	}
	return s.Value, nil
}

// FacilityValue resolves a facility name to its numeric value.
func (c *CodeCatalog) FacilityValue(name string) (uint32, error) {
	f, ok := c.facilities[name]
	if !ok {
		return 0, fmt.Errorf("%w: facility %q", ErrUnknownName, name)
	}
	return f.Value, nil
}

// SeverityNames returns the distinct declared severity names in
// declaration order, or the built-in names when the file declared none.
func (c *CodeCatalog) SeverityNames() []string {
	if len(c.severityOrder) == 0 {
		names := make([]string, len(builtinSeverities))
		for i, s := range builtinSeverities {
			names[i] = s.Name
		}
		return names
	}
	return distinct(c.severityOrder)
}

// FacilityNames returns the distinct declared facility names in
// declaration order, or the built-in names when the file declared none.
func (c *CodeCatalog) FacilityNames() []string {
	if len(c.facilityOrder) == 0 {
		names := make([]string, len(builtinFacilities))
		for i, f := range builtinFacilities {
			names[i] = f.Name
		}
		return names
	}
	return distinct(c.facilityOrder)
}

// SeverityHistory returns every severity declaration in file order,
// including re-declarations of the same name.
func (c *CodeCatalog) SeverityHistory() []string {
	return c.severityOrder
}

// FacilityHistory returns every facility declaration in file order.
func (c *CodeCatalog) FacilityHistory() []string {
	return c.facilityOrder
}

// Codes returns the error-code records in declaration order.
// The slice aliases catalog state; callers must not modify it.
func (c *CodeCatalog) Codes() []ErrorCode {
	return c.codes
}

func (c *CodeCatalog) addCode(code ErrorCode) {
	c.codes = append(c.codes, code)
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// splitDeclaration parses a plain Name=Value declaration.
func splitDeclaration(text string) (string, uint32, error) {
	parts := strings.Split(text, "=")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedDeclaration, text)
	}
	value, err := parseValue(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedDeclaration, text)
	}
	return strings.TrimSpace(parts[0]), value, nil
}

// parseValue accepts decimal or 0x-prefixed hex and narrows to uint32.
func parseValue(text string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 0, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](v)
}
