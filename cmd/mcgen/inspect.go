package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcgen/internal/driver"
	"mcgen/internal/mc"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] file.mc",
	Short: "Parse a message file and dump its catalog",
	Long:  `Inspect parses a message-definition file and prints the severities, facilities and error codes it declares`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type inspectEntry struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

type inspectCode struct {
	SymbolicName string   `json:"symbolic_name"`
	ID           uint32   `json:"id"`
	Severity     uint32   `json:"severity"`
	Facility     uint32   `json:"facility"`
	Value        string   `json:"value"`
	Message      []string `json:"message,omitempty"`
}

type inspectPayload struct {
	Severities []inspectEntry `json:"severities"`
	Facilities []inspectEntry `json:"facilities"`
	Codes      []inspectCode  `json:"codes"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	lines, err := driver.ReadLines(args[0])
	if err != nil {
		return err
	}
	catalog, err := mc.Parse(lines)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	switch format {
	case "pretty":
		renderCatalogPretty(cmd, catalog)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(catalogPayload(catalog))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func catalogPayload(c *mc.CodeCatalog) inspectPayload {
	var payload inspectPayload
	for _, name := range c.SeverityNames() {
		v, _ := c.SeverityValue(name)
		payload.Severities = append(payload.Severities, inspectEntry{Name: name, Value: v})
	}
	for _, name := range c.FacilityNames() {
		v, _ := c.FacilityValue(name)
		payload.Facilities = append(payload.Facilities, inspectEntry{Name: name, Value: v})
	}
	for _, code := range c.Codes() {
		payload.Codes = append(payload.Codes, inspectCode{
			SymbolicName: code.SymbolicName,
			ID:           code.ID,
			Severity:     code.Severity,
			Facility:     code.Facility,
			Value:        fmt.Sprintf("0x%08X", code.Value()),
			Message:      code.Message,
		})
	}
	return payload
}

func renderCatalogPretty(cmd *cobra.Command, c *mc.CodeCatalog) {
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	symbol := color.New(color.FgGreen)
	if !useColor(cmd, os.Stdout) {
		heading.DisableColor()
		symbol.DisableColor()
	}

	heading.Fprintln(out, "Severities")
	for _, name := range c.SeverityNames() {
		v, _ := c.SeverityValue(name)
		fmt.Fprintf(out, "  %-24s 0x%X\n", name, v)
	}
	heading.Fprintln(out, "Facilities")
	for _, name := range c.FacilityNames() {
		v, _ := c.FacilityValue(name)
		fmt.Fprintf(out, "  %-24s 0x%X\n", name, v)
	}
	heading.Fprintln(out, "Codes")
	for _, code := range c.Codes() {
		fmt.Fprintf(out, "  %s 0x%08X\n", symbol.Sprintf("%-24s", code.SymbolicName), code.Value())
		if len(code.Message) > 0 {
			fmt.Fprintf(out, "    %s\n", code.Message[0])
		}
	}
}
