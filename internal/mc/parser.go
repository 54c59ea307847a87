package mc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

const (
	severityMarker = "SeverityNames"
	facilityMarker = "FacilityNames"
	languageMarker = "Language"
	languageName   = "English"
	bodyTerminator = "."
)

// Record fields are order-insensitive within the joined metadata text,
// so each one is extracted independently. The id pattern accepts an
// empty value; see resolveID.
var (
	messageIDField = regexp.MustCompile(`\bMessageId\s*=\s*(\S*)`)
	severityField  = regexp.MustCompile(`\bSeverity\s*=\s*(\w+)`)
	facilityField  = regexp.MustCompile(`\bFacility\s*=\s*(\w+)`)
	symbolicField  = regexp.MustCompile(`\bSymbolicName\s*=\s*(\w+)`)
)

// recordState carries the inheritance rules across records: the last
// explicitly stated severity and facility values, plus the running id
// counter scoped to the facility that last assigned a relative id.
type recordState struct {
	severity     uint32
	facility     uint32
	facilityName string
	id           uint32
}

type parser struct {
	lines   []string
	pos     int
	catalog *CodeCatalog
}

// Parse runs a single pass over the input lines and builds the catalog:
// the severity and facility header tables first, then every error-code
// record until the input is exhausted. The cursor only moves forward.
func Parse(lines []string) (*CodeCatalog, error) {
	p := &parser{lines: lines, catalog: NewCodeCatalog()}
	if err := p.header(severityMarker, p.catalog.AddSeverity); err != nil {
		return nil, err
	}
	if err := p.header(facilityMarker, p.catalog.AddFacility); err != nil {
		return nil, err
	}
	st := recordState{
		severity: p.catalog.DefaultSeverityValue(),
		facility: p.catalog.DefaultFacilityValue(),
	}
	for {
		done, err := p.record(&st)
		if err != nil {
			return nil, err
		}
		if done {
			return p.catalog, nil
		}
	}
}

// header advances to the line carrying the marker keyword, assembles
// the parenthesized block that follows, and registers each Name=Value
// pair through add.
func (p *parser) header(marker string, add func(string) error) error {
	for p.pos < len(p.lines) {
		line := CleanLine(p.lines[p.pos])
		p.pos++
		if !strings.Contains(line, marker) {
			continue
		}
		start := p.pos - 1

		content := ""
		if i := strings.Index(line, "("); i >= 0 {
			content = line[i+1:]
		}
		var block []string
		if i := strings.Index(content, ")"); i >= 0 {
			block = []string{content[:i]}
		} else {
			block = []string{content}
			closed := false
			for p.pos < len(p.lines) {
				next := CleanLine(p.lines[p.pos])
				p.pos++
				if i := strings.Index(next, ")"); i >= 0 {
					block = append(block, next[:i])
					closed = true
					break
				}
				block = append(block, next)
			}
			if !closed {
				return parseErr(len(p.lines), marker, ErrMalformedBlock)
			}
		}

		pairs, err := SplitAssignments(block)
		if err != nil {
			return parseErr(start, strings.Join(block, " "), err)
		}
		for _, pair := range pairs {
			if err := add(pair); err != nil {
				return parseErr(start, pair, err)
			}
		}
		return nil
	}
	return parseErr(len(p.lines), marker, ErrHeaderNotFound)
}

// record decodes one error-code record. Returns done=true when the
// input is exhausted before another language marker appears, which is
// the normal end of the scan.
func (p *parser) record(st *recordState) (bool, error) {
	start := p.pos
	meta := make([]string, 0, 4)
	first := ""
	found := false
	for p.pos < len(p.lines) {
		line := CleanLine(p.lines[p.pos])
		p.pos++
		if strings.Contains(line, languageMarker) {
			// Everything before the language name is still metadata,
			// everything after it starts the message body.
			before, after, _ := strings.Cut(line, languageName)
			meta = append(meta, before)
			first = after
			found = true
			break
		}
		meta = append(meta, line)
	}
	if !found {
		return true, nil
	}
	metaText := strings.Join(meta, " ")

	sym := symbolicField.FindStringSubmatch(metaText)
	if sym == nil {
		// Anonymous record: not meant to produce code, skip its body.
		p.skipBody()
		return false, nil
	}

	id, err := p.resolveID(st, metaText, start)
	if err != nil {
		return false, err
	}

	if m := severityField.FindStringSubmatch(metaText); m != nil {
		v, lookupErr := p.catalog.SeverityValue(m[1])
		if lookupErr != nil {
			return false, parseErr(start, metaText, lookupErr)
		}
		st.severity = v
	}
	if m := facilityField.FindStringSubmatch(metaText); m != nil {
		v, lookupErr := p.catalog.FacilityValue(m[1])
		if lookupErr != nil {
			return false, parseErr(start, metaText, lookupErr)
		}
		st.facility = v
	}

	code, err := NewErrorCode(id, st.severity, st.facility, sym[1])
	if err != nil {
		return false, parseErr(start, metaText, err)
	}
	code.Message = p.body(first)
	p.catalog.addCode(code)
	return false, nil
}

// resolveID extracts the MessageId field and applies the id-assignment
// rule: an absolute value is taken as-is, while an empty value or a
// +N delta continues the running counter, which resets whenever the
// record names a different facility than the one that last assigned a
// relative id.
func (p *parser) resolveID(st *recordState, metaText string, start int) (uint32, error) {
	m := messageIDField.FindStringSubmatch(metaText)
	if m == nil {
		return 0, parseErr(start, metaText, ErrMissingMessageID)
	}
	idText := m[1]
	if strings.Contains(idText, "=") {
		// The id value was empty and the pattern ran into the next
		// key=value field.
		idText = ""
	}

	if idText == "" || strings.HasPrefix(idText, "+") {
		facName := ""
		if fm := facilityField.FindStringSubmatch(metaText); fm != nil {
			facName = fm[1]
		}
		if facName != "" && facName != st.facilityName {
			st.id = 0
			st.facilityName = facName
		}
		delta := uint64(1)
		if idText != "" {
			d, err := strconv.ParseUint(idText[1:], 0, 64)
			if err != nil {
				return 0, parseErr(start, metaText, ErrMissingMessageID)
			}
			delta = d
		}
		next, err := safecast.Conv[uint32](uint64(st.id) + delta)
		if err != nil {
			return 0, parseErr(start, metaText, fmt.Errorf("%w: relative id overflow", ErrInvalidErrorCode))
		}
		st.id = next
		return next, nil
	}

	v, err := strconv.ParseUint(idText, 0, 64)
	if err != nil {
		return 0, parseErr(start, metaText, ErrMissingMessageID)
	}
	id, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, parseErr(start, metaText, fmt.Errorf("%w: message id 0x%X exceeds 32 bits", ErrInvalidErrorCode, v))
	}
	return id, nil
}

// skipBody consumes lines up to and including the terminating lone dot.
func (p *parser) skipBody() {
	for p.pos < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.pos])
		p.pos++
		if line == bodyTerminator {
			return
		}
	}
}

// body collects the message lines verbatim up to the terminating lone
// dot. first is the remainder of the language-marker line; it becomes
// the first message line when non-empty.
func (p *parser) body(first string) []string {
	var msg []string
	if s := strings.TrimSpace(first); s != "" {
		msg = append(msg, s)
	}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if strings.TrimSpace(line) == bodyTerminator {
			break
		}
		msg = append(msg, line)
	}
	return msg
}
