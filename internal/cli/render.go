package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucenequery/lucene"
)

var (
	renderDefaultOp string
	renderSimplify  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [query]",
	Short: "Parse a query and print its canonical rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryArg(cmd, args)
		if err != nil {
			return err
		}
		op, err := parseDefaultOperator(renderDefaultOp)
		if err != nil {
			return err
		}

		result := lucene.Parse(text, op)
		doc := result.Document
		if renderSimplify {
			doc = doc.Simplify(0)
		}

		fmt.Fprintln(cmd.OutOrStdout(), doc.Render())
		if !result.IsSuccess() {
			logger.Warn("query had parse diagnostics", "count", len(result.Errors))
			return fmt.Errorf("parsed with %d error(s)", len(result.Errors))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderDefaultOp, "default-operator", "or", "default operator joining clauses with no explicit AND/OR (or|and)")
	renderCmd.Flags().BoolVar(&renderSimplify, "simplify", false, "simplify the AST before rendering")
}
