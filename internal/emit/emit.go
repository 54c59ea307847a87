// Package emit renders a finished code catalog into Go source: one
// enum type per name table, hex value mappings, and one constant per
// error-code record. It performs no validation; the catalog is trusted
// to be well-formed.
package emit

import (
	"fmt"
	"strings"

	"mcgen/internal/mc"
)

// Options control the rendered output.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
}

// DefaultPackage is used when Options.Package is empty.
const DefaultPackage = "codes"

// Render produces the generated source for the catalog. It is a pure
// transformation; writing the result anywhere is the caller's concern.
func Render(c *mc.CodeCatalog, opts Options) string {
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	var b strings.Builder
	b.WriteString("// Code generated by mcgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	renderEnum(&b, "Severity", "the top two bits of a packed code value", c.SeverityNames(), func(name string) uint32 {
		v, _ := c.SeverityValue(name)
		return v
	})
	renderEnum(&b, "Facility", "bits 27-16 of a packed code value", c.FacilityNames(), func(name string) uint32 {
		v, _ := c.FacilityValue(name)
		return v
	})
	renderCodes(&b, c.Codes())

	return b.String()
}

// renderEnum writes one sum type: a variant per name in declaration
// order, a Value method mapping each variant to its numeric field in
// hex, and a String method with the declared names.
func renderEnum(b *strings.Builder, kind, doc string, names []string, value func(string) uint32) {
	fmt.Fprintf(b, "// %s selects %s.\n", kind, doc)
	fmt.Fprintf(b, "type %s int\n\n", kind)

	b.WriteString("const (\n")
	for i, name := range names {
		if i == 0 {
			fmt.Fprintf(b, "\t%s%s %s = iota\n", kind, identifier(name), kind)
			continue
		}
		fmt.Fprintf(b, "\t%s%s\n", kind, identifier(name))
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(b, "// Value returns the numeric %s field.\n", strings.ToLower(kind))
	fmt.Fprintf(b, "func (v %s) Value() uint32 {\n", kind)
	b.WriteString("\tswitch v {\n")
	for _, name := range names {
		fmt.Fprintf(b, "\tcase %s%s:\n\t\treturn 0x%X\n", kind, identifier(name), value(name))
	}
	b.WriteString("\t}\n\treturn 0\n}\n\n")

	fmt.Fprintf(b, "func (v %s) String() string {\n", kind)
	b.WriteString("\tswitch v {\n")
	for _, name := range names {
		fmt.Fprintf(b, "\tcase %s%s:\n\t\treturn %q\n", kind, identifier(name), name)
	}
	b.WriteString("\t}\n\treturn \"unknown\"\n}\n\n")
}

// renderCodes writes one constant per record holding the packed 32-bit
// value, with the first message line as its doc comment, and a lookup
// from packed value back to the full message text.
func renderCodes(b *strings.Builder, codes []mc.ErrorCode) {
	if len(codes) == 0 {
		return
	}

	b.WriteString("// Packed code values.\n")
	b.WriteString("const (\n")
	for _, code := range codes {
		if len(code.Message) > 0 {
			fmt.Fprintf(b, "\t// %s\n", code.Message[0])
		}
		fmt.Fprintf(b, "\t%s uint32 = 0x%08X\n", identifier(code.SymbolicName), code.Value())
	}
	b.WriteString(")\n\n")

	b.WriteString("// MessageText returns the message body for a packed code value,\n")
	b.WriteString("// or the empty string for an unknown code.\n")
	b.WriteString("func MessageText(code uint32) string {\n")
	b.WriteString("\tswitch code {\n")
	for _, code := range codes {
		fmt.Fprintf(b, "\tcase %s:\n\t\treturn %q\n", identifier(code.SymbolicName), strings.Join(code.Message, "\n"))
	}
	b.WriteString("\t}\n\treturn \"\"\n}\n")
}

// identifier maps a declared name onto a valid Go identifier: letters,
// digits and underscores survive, everything else is dropped, and a
// leading digit gets an underscore prefix.
func identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "_" + s
	}
	return s
}
