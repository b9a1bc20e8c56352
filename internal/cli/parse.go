package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucenequery/lucene"
)

var parseDefaultOp string

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Parse a query and print its AST as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryArg(cmd, args)
		if err != nil {
			return err
		}
		op, err := parseDefaultOperator(parseDefaultOp)
		if err != nil {
			return err
		}

		result := lucene.Parse(text, op)
		logger.Debug("parsed query", "run_errors", len(result.Errors), "success", result.IsSuccess())

		out := map[string]any{
			"document": describe(result.Document.Query),
			"errors":   describeParseErrors(result.Errors),
			"success":  result.IsSuccess(),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
		if !result.IsSuccess() {
			return fmt.Errorf("parsed with %d error(s)", len(result.Errors))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseDefaultOp, "default-operator", "or", "default operator joining clauses with no explicit AND/OR (or|and)")
}

func describeParseErrors(errs []lucene.ParseError) []any {
	out := make([]any, len(errs))
	for i, e := range errs {
		out[i] = map[string]any{
			"message": e.Message,
			"offset":  e.Offset,
			"length":  e.Length,
			"line":    e.Line,
			"column":  e.Column,
		}
	}
	return out
}

func parseDefaultOperator(s string) (lucene.DefaultOperator, error) {
	switch strings.ToLower(s) {
	case "", "or":
		return lucene.Or, nil
	case "and":
		return lucene.And, nil
	default:
		return lucene.Or, fmt.Errorf("unknown default operator %q (want \"or\" or \"and\")", s)
	}
}

// readQueryArg returns the query text from args[0], or from stdin when no
// argument is given, matching the pipeline-friendly convention the rest of
// the CLI's subcommands share.
func readQueryArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
