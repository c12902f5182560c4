package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/utils"
)

var (
	batchFlags   = requestFlags{mergeOther: true}
	batchOutDir  string
	batchWorkers int
	batchQuiet   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Run the same analysis over many survey exports",
	Long: `Run the same analysis over every matching file and write one workbook per
input into the output directory as <name>_<type>.xlsx. Patterns support **.

Example:
  nps batch 'exports/**/*.xlsx' -t nps -q S1 --out-dir results`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := batchFlags.build(cmd.Flags())
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := currentConfig()
		outDir := batchOutDir
		if outDir == "" {
			outDir = c.OutputDir
		}
		if outDir != "" {
			if err := utils.EnsureDir(outDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		workers := batchWorkers
		if workers <= 0 {
			workers = c.BatchWorkers
		}

		var bar *progressbar.ProgressBar
		if !batchQuiet && term.IsTerminal(int(os.Stderr.Fd())) {
			bar = newProgressBar(os.Stderr, len(files))
		}
		results := runBatch(cmd.Context(), files, req, outDir, workers, func() {
			if bar != nil {
				_ = bar.Add(1)
			}
		})

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", r.input, r.err)
				continue
			}
			if !batchQuiet {
				fmt.Fprintf(out, "✓ %s -> %s\n", filepath.Base(r.input), r.output)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
		}
		fmt.Fprintf(out, "✓ Analyzed %d file(s)\n", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.bind(batchCmd.Flags())
	addLoadFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for the workbooks (default: config output_dir)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "files analyzed concurrently (default: config batch_workers)")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress per-file lines and the progress bar")
}

// expandInputs resolves ** globs and literal paths, deduplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err != nil || fi.IsDir() {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

type batchResult struct {
	input  string
	output string
	err    error
}

// runBatch analyzes files with at most workers in flight. A failing file
// does not stop the others; results keep input order.
func runBatch(ctx context.Context, files []string, req report.Request, outDir string, workers int, done func()) []batchResult {
	if workers <= 0 {
		workers = 1
	}
	outputs := batchOutputs(files, string(req.Type), outDir)
	results := make([]batchResult, len(files))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			res := batchResult{input: path, output: outputs[i]}
			res.err = analyzeFile(ctx, path, req, res.output)
			results[i] = res
			mu.Lock()
			done()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// batchOutputs names one workbook per input; inputs sharing a base name get
// a "__n" suffix.
func batchOutputs(files []string, suffix, outDir string) []string {
	out := make([]string, len(files))
	taken := make(map[string]bool, len(files))
	for i, f := range files {
		name := utils.OutputPath(outDir, f, suffix, ".xlsx")
		stem := strings.TrimSuffix(name, ".xlsx")
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s__%d.xlsx", stem, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

func analyzeFile(ctx context.Context, path string, req report.Request, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ds, err := loadDataset(path)
	if err != nil {
		return err
	}
	b, err := newService(ds, filepath.Base(path)).Run(ctx, req)
	if err != nil {
		return err
	}
	return report.SaveXLSX(out, b)
}

func newProgressBar(w io.Writer, max int) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
