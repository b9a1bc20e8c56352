package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucenequery/lucene"
	"github.com/lucenequery/lucene/visitor"
	"github.com/lucenequery/lucene/visitor/include"
)

var (
	expandDefaultOp string
	expandDir       string
	expandMaxDepth  int
)

var expandCmd = &cobra.Command{
	Use:   "expand [query]",
	Short: "Expand @include references against a directory of named query fragments",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryArg(cmd, args)
		if err != nil {
			return err
		}
		op, err := parseDefaultOperator(expandDefaultOp)
		if err != nil {
			return err
		}
		if expandDir == "" {
			return fmt.Errorf("--include-dir is required")
		}

		result := lucene.Parse(text, op)
		ctx := visitor.NewContext(cmd.Context())
		expanded, errs := result.Document.ExpandIncludes(ctx, include.Options{
			Resolver:        fileResolver{dir: expandDir},
			DefaultOperator: op,
			MaxDepth:        expandMaxDepth,
		})

		fmt.Fprintln(cmd.OutOrStdout(), expanded.Render())
		for _, e := range errs {
			logger.Warn("include expansion issue", "error", e.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("expansion had %d issue(s)", len(errs))
		}
		return nil
	},
}

func init() {
	expandCmd.Flags().StringVar(&expandDefaultOp, "default-operator", "or", "default operator joining clauses with no explicit AND/OR (or|and)")
	expandCmd.Flags().StringVar(&expandDir, "include-dir", "", "directory holding one <name>.lucene file per include")
	expandCmd.Flags().IntVar(&expandMaxDepth, "max-depth", 16, "maximum include recursion depth")
}

// fileResolver resolves an include name to the contents of
// <dir>/<name>.lucene.
type fileResolver struct {
	dir string
}

func (r fileResolver) Resolve(_ *visitor.Context, name string) (string, bool, error) {
	path := filepath.Join(r.dir, name+".lucene")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}
