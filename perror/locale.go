package perror

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LocalizedMessage renders the same debug string Message does, except for
// ExpectedAnyTokenKind: there the candidate list is ordered by loc's
// collation rules instead of Go's byte-wise string sort, so the same error
// lists "a, e, i" in English order and whatever a caller's locale considers
// sorted in its own alphabet. Every other Kind has no multi-item list to
// order and renders identically to Message.
func (e *ParseError) LocalizedMessage(loc language.Tag) string {
	if e.Kind != ExpectedAnyTokenKind || len(e.Expected) < 2 {
		return e.Message()
	}

	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	c := collate.New(loc)
	c.SortStrings(names)
	return fmt.Sprintf("expected one of [%s]", strings.Join(names, ", "))
}
