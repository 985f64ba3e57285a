package perror

import (
	"strings"
	"testing"

	"github.com/cwbudde/pqparse/token"
	"golang.org/x/text/language"
)

func TestBuilderBuildsExpectedTokenKind(t *testing.T) {
	pos := token.Position{Line: 1, CodeUnit: 3}
	found := token.Token{Kind: token.Comma, Data: ",", PositionStart: pos}

	err := New(ExpectedTokenKind).WithPosition(pos).WithExpected(token.RightParen).WithFound(found).Build()

	if err.Kind != ExpectedTokenKind {
		t.Fatalf("Kind = %v, want ExpectedTokenKind", err.Kind)
	}
	if got, want := err.Message(), "expected )"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
	if !strings.Contains(err.Error(), "expected )") {
		t.Errorf("Error() = %q, missing message", err.Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	pos := token.Position{Line: 2}
	found := token.Token{Kind: token.Identifier, Data: "x", PositionStart: pos}

	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{"Expected", Expected(pos, found, token.Semicolon), "expected ;"},
		{"ExpectedClosing", ExpectedClosing(pos, found, token.RightBracket), "expected closing ]"},
		{"Unterminated", Unterminated(Bracket, found), "unterminated Bracket"},
		{"UnusedTokens", UnusedTokens(found), "unused tokens remain after parse"},
		{"Invariant", Invariant("bad state", "detail"), "bad state: detail"},
		{"Cancel", Cancel(pos), "parse cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpectedAnyListsEveryCandidate(t *testing.T) {
	pos := token.Position{Line: 1}
	found := token.Token{Kind: token.Colon, PositionStart: pos}

	err := ExpectedAny(pos, found, token.Identifier, token.LeftParen, token.LeftBracket)
	got := err.Message()
	for _, want := range []string{"Identifier", "(", "["} {
		if !strings.Contains(got, want) {
			t.Errorf("Message() = %q, missing %q", got, want)
		}
	}
}

func TestLocalizedMessageSortsExpectedCandidates(t *testing.T) {
	pos := token.Position{Line: 1}
	found := token.Token{Kind: token.Colon, PositionStart: pos}

	err := ExpectedAny(pos, found, token.Identifier, token.LeftBracket)

	localized := err.LocalizedMessage(language.English)
	if !strings.Contains(localized, "Identifier") || !strings.Contains(localized, "[") {
		t.Fatalf("LocalizedMessage() = %q, missing a candidate", localized)
	}

	// Single-candidate and non-ExpectedAny errors are unaffected by locale.
	single := Expected(pos, found, token.Semicolon)
	if single.LocalizedMessage(language.English) != single.Message() {
		t.Errorf("LocalizedMessage should equal Message for a single-candidate error")
	}
}
