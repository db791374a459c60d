package nav

import (
	"regexp"
	"strings"
)

var (
	// "01 - Setup", "2. Setup", "003_Setup"
	orderPrefix = regexp.MustCompile(`^\s*\d+\s*[-._)]\s*`)
	// "Setup (draft)", "Setup [internal]"
	trailingQualifier = regexp.MustCompile(`\s*[(\[][^()\[\]]*[)\]]\s*$`)
	// "Setup | home"
	pipeQualifier = regexp.MustCompile(`\s*\|[^|]*$`)
)

// CleanName turns a raw store name into a display name.
//
// It strips a leading ordering prefix, trailing bracketed qualifiers and a
// trailing "| ..." qualifier. A name that would be emptied is returned trimmed.
func CleanName(raw string) string {
	name := orderPrefix.ReplaceAllString(raw, "")
	name = pipeQualifier.ReplaceAllString(name, "")
	for {
		next := trailingQualifier.ReplaceAllString(name, "")
		if next == name {
			break
		}
		name = next
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return strings.TrimSpace(raw)
	}
	return name
}
