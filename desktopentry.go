package dotdirectory

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
)

var (
	// blank lines, or both unix and windows comment initialisers
	commentLine = regexp.MustCompile(`^\s*(?:[;#].*|\s*)$`)
	sectionLine = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	fieldLine   = regexp.MustCompile(`^\s*([0-9A-Za-z]+)\s*=\s*(.+)$`)
)

type lineKind int

const (
	lineIgnored lineKind = iota
	lineSection
	lineField
	lineUnknown
)

// classifyLine returns the kind of line and, for sections and fields, the
// captured name and value.
func classifyLine(line string) (kind lineKind, name, value string) {
	if commentLine.MatchString(line) {
		return lineIgnored, "", ""
	}
	if m := sectionLine.FindStringSubmatch(line); m != nil {
		return lineSection, m[1], ""
	}
	if m := fieldLine.FindStringSubmatch(line); m != nil {
		return lineField, m[1], m[2]
	}
	return lineUnknown, "", ""
}

// State of one scan. Only the most recent section header is remembered.
type scanState struct {
	section    string
	hasSection bool
}

func (st *scanState) in(section string) bool {
	return st.hasSection && st.section == section
}

// ResolveField returns the first value assigned to field while inside
// section, reading lines from top to bottom. Matches of field in any other
// section are logged and skipped. file only labels log events.
//
// The returned error is whatever stopped the line source early (read,
// decode or context failure); running out of lines without a match is not
// an error.
func ResolveField(ctx context.Context, logger zerolog.Logger, lines *LineScanner, file, section, field string) (string, bool, error) {
	var st scanState

	for lines.Scan(ctx) {
		line := lines.Text()
		kind, name, value := classifyLine(line)
		switch kind {
		case lineIgnored:
		case lineSection:
			st.section, st.hasSection = name, true
		case lineField:
			if name != field {
				continue
			}
			if !st.in(section) {
				ev := logger.Warn().Str("icon", value).Str("file", file)
				if st.hasSection {
					ev = ev.Str("section", st.section)
				}
				ev.Msg("found icon definition in incorrect section")
				continue
			}
			return value, true, nil
		default:
			logger.Warn().Str("line", line).Str("file", file).Msg("unable to parse line")
		}
	}
	if err := lines.Err(); err != nil {
		return "", false, err
	}

	logger.Debug().Str("field", field).Str("file", file).Msg("failed to find field")
	return "", false, nil
}
