package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/pqparse/lexer"
	"github.com/cwbudde/pqparse/token"
	"github.com/spf13/cobra"
)

var (
	lexExpr     string
	lexShowPos  bool
	lexShowKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an M document or expression",
	Long: `Tokenize (lex) an M document and print the resulting tokens.

If no file is provided, reads from stdin. Use -e to tokenize an inline
expression from the command line.

Examples:
  pqparse lex query.pq
  pqparse lex -e "let x = 1 in x"
  pqparse lex --show-kind --show-pos query.pq`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline text instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-kind", false, "show token kind names")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readSource(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	tokens := l.Tokenize()

	for _, tok := range tokens {
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lex error: %s @%s\n", e.Message, e.Position)
		}
		return fmt.Errorf("found %d lexical error(s)", len(errs))
	}

	return nil
}

func printToken(tok token.Token) {
	var out string
	if lexShowKind {
		out = fmt.Sprintf("[%-16s]", tok.Kind)
	}
	if tok.Data == "" {
		out += fmt.Sprintf(" %s", tok.Kind)
	} else {
		out += fmt.Sprintf(" %q", tok.Data)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.PositionStart)
	}
	fmt.Println(out)
}

// readSource resolves the CLI's three input sources (inline expression,
// file argument, stdin) into a single source string, shared by lex and
// parse.
func readSource(inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
