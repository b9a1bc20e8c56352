package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucenequery/lucene"
	"github.com/lucenequery/lucene/visitor/validate"
)

var (
	validateDefaultOp     string
	validateAllowedFields string
	validateDeniedFields  string
	validateMaxDepth      int
	validateAllowLeading  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [query]",
	Short: "Validate a query against field, operation, and depth restrictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryArg(cmd, args)
		if err != nil {
			return err
		}
		op, err := parseDefaultOperator(validateDefaultOp)
		if err != nil {
			return err
		}

		result := lucene.Parse(text, op)
		opts := validate.Options{
			AllowedFields:        splitCSV(validateAllowedFields),
			RestrictedFields:     splitCSV(validateDeniedFields),
			MaxDepth:             validateMaxDepth,
			AllowLeadingWildcard: validateAllowLeading,
		}

		vr, vErr := result.Document.ValidateAndThrow(opts)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(vr); err != nil {
			return err
		}
		if vErr != nil {
			logger.Warn("query failed validation", "errors", len(vr.Errors))
			return fmt.Errorf("validation failed: %w", vErr)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateDefaultOp, "default-operator", "or", "default operator joining clauses with no explicit AND/OR (or|and)")
	validateCmd.Flags().StringVar(&validateAllowedFields, "allowed-fields", "", "comma-separated allow-list of field names")
	validateCmd.Flags().StringVar(&validateDeniedFields, "restricted-fields", "", "comma-separated deny-list of field names")
	validateCmd.Flags().IntVar(&validateMaxDepth, "max-depth", 0, "maximum nesting depth (0 = unbounded)")
	validateCmd.Flags().BoolVar(&validateAllowLeading, "allow-leading-wildcard", false, "permit leading '*'/'?' wildcards")
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
