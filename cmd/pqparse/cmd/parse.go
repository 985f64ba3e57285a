package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/pqparse/ast"
	"github.com/cwbudde/pqparse/lexer"
	"github.com/cwbudde/pqparse/parser"
	"github.com/cwbudde/pqparse/perror"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	parseExpr        string
	parseDumpAST      bool
	parseMode         string
	parsePolicy       string
	parseLocale       string
	parseReconstruct  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an M document and display the AST",
	Long: `Parse an M document or expression and display the resulting
abstract syntax tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line.

Examples:
  pqparse parse query.pq
  pqparse parse -e "1 + 2" --mode expression
  pqparse parse --dump-ast --policy thorough query.pq
  pqparse parse --reconstruct query.pq`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline text instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
	parseCmd.Flags().StringVar(&parseMode, "mode", "document", "entry point: document, expression, or section")
	parseCmd.Flags().StringVar(&parsePolicy, "policy", "strict", "disambiguation policy: strict or thorough")
	parseCmd.Flags().StringVar(&parseLocale, "locale", "", "BCP 47 locale tag used to order diagnostic candidate lists")
	parseCmd.Flags().BoolVar(&parseReconstruct, "reconstruct", false, "re-serialize the token stream and print it instead of the AST")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readSource(parseExpr, args)
	if err != nil {
		return err
	}

	opts, err := buildOptions(parseMode, parsePolicy, parseLocale)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	tokens := l.Tokenize()
	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lex error: %s @%s\n", e.Message, e.Position)
		}
		return fmt.Errorf("found %d lexical error(s)", len(errs))
	}

	result, err := parser.Parse(tokens, opts)
	if err != nil {
		if pe, ok := err.(*perror.ParseError); ok {
			return fmt.Errorf("parse error: %s at %s", pe.LocalizedMessage(opts.Locale), pe.Pos)
		}
		return fmt.Errorf("parse error: %w", err)
	}

	switch {
	case parseReconstruct:
		fmt.Print(result.Reconstruct())
	case parseDumpAST:
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		if err := ast.Print(os.Stdout, result.Root); err != nil {
			return err
		}
	default:
		fmt.Println(ast.Sprint(result.Root))
	}

	return nil
}

// buildOptions translates the parse command's flags into parser.Options,
// falling back to parser.DefaultOptions for anything left unset.
func buildOptions(mode, policy, locale string) (parser.Options, error) {
	opts := parser.DefaultOptions()

	switch mode {
	case "", "document":
		opts.Mode = parser.ModeDocument
	case "expression":
		opts.Mode = parser.ModeExpression
	case "section":
		opts.Mode = parser.ModeSection
	default:
		return opts, fmt.Errorf("unknown mode: %s (use document, expression, or section)", mode)
	}

	switch policy {
	case "", "strict":
		opts.DisambiguationPolicy = parser.Strict
	case "thorough":
		opts.DisambiguationPolicy = parser.Thorough
	default:
		return opts, fmt.Errorf("unknown policy: %s (use strict or thorough)", policy)
	}

	if locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return opts, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		opts.Locale = tag
	}

	return opts, nil
}
