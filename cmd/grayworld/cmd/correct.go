package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-grayworld/grayworld"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
	"github.com/ajroetker/go-grayworld/internal/config"
	"github.com/ajroetker/go-grayworld/internal/frameio"
	"github.com/ajroetker/go-grayworld/internal/logging"
	"github.com/ajroetker/go-grayworld/internal/report"
)

// NewCorrectCmd corrects image files and writes the results to a directory.
func NewCorrectCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct [files...]",
		Short: "remove the colour cast from image files",
		Long: "correct decodes each file (PNG, JPEG, GIF, BMP, TIFF), removes its colour cast " +
			"and writes a 16-bit PNG or TIFF into --out-dir. Files of the same size are " +
			"processed in parallel, one filter per worker.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			ctx := logging.AppendCtx(ctx, slog.String("run_id", runID))
			rep, err := correctFiles(ctx, cfg, args)
			if rep != nil && cfg.Report != "" {
				rep.RunID = runID
				if werr := report.WriteFile(cfg.Report, rep); werr != nil {
					err = errors.Join(err, werr)
				} else {
					slog.InfoContext(ctx, "report written", slog.String("path", cfg.Report))
				}
			}
			return err
		},
	}
	pf := cmd.Flags()
	pf.StringP("config", "c", "", "YAML configuration file")
	pf.StringP("out-dir", "o", ".", "directory for corrected files")
	pf.StringP("mode", "m", "mean", "chroma statistic (mean|median)")
	pf.StringP("tier", "t", "auto", "vector tier (auto|scalar|sse2|avx2|avx512)")
	pf.IntP("jobs", "j", 0, "parallel filters per image size (0: GOMAXPROCS)")
	pf.StringP("format", "f", "", "output format (png|tiff); default keeps .tif/.tiff inputs as TIFF and writes PNG otherwise")
	pf.StringP("report", "r", "", "write a msgpack report of the removed biases to this file")
	return cmd
}

// loadConfig reads --config if given and applies every flag that was set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	pf := cmd.Flags()
	cfg := config.Default()
	if path, _ := pf.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if pf.Changed("out-dir") {
		cfg.OutDir, _ = pf.GetString("out-dir")
	}
	if pf.Changed("mode") {
		s, _ := pf.GetString("mode")
		m, err := grayworld.ParseMode(s)
		if err != nil {
			return nil, err
		}
		cfg.Mode = m
	}
	if pf.Changed("tier") {
		s, _ := pf.GetString("tier")
		t, err := grayworld.ParseTier(s)
		if err != nil {
			return nil, err
		}
		cfg.Tier = t
	}
	if pf.Changed("jobs") {
		cfg.Jobs, _ = pf.GetInt("jobs")
	}
	if pf.Changed("format") {
		cfg.Format, _ = pf.GetString("format")
	}
	if pf.Changed("report") {
		cfg.Report, _ = pf.GetString("report")
	}
	// Re-validate after overrides; this also re-fills a zeroed jobs count.
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// item is one input file on its way through the command.
type item struct {
	path   string
	out    string
	format frameio.Format
	frame  *image.Frame[float32]
	bias   grayworld.Bias
	err    error
}

func (it *item) size() [2]int {
	return [2]int{it.frame.Width(), it.frame.Height()}
}

func correctFiles(ctx context.Context, cfg *config.Config, paths []string) (*report.Report, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, err
	}
	items := lo.Map(paths, func(p string, _ int) *item { return &item{path: p} })
	claimOutputs(cfg, items)

	// Decode in parallel; a file that fails is reported, not fatal.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for _, it := range items {
		if it.err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			it.frame, _, it.err = frameio.ReadFile(it.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	decoded := lo.Filter(items, func(it *item, _ int) bool { return it.err == nil })
	groups := lo.GroupBy(decoded, (*item).size)
	sizes := lo.Keys(groups)
	slices.SortFunc(sizes, func(a, b [2]int) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})

	var tier grayworld.Tier
	for _, size := range sizes {
		group := groups[size]
		t, err := correctGroup(ctx, cfg, size, group)
		if err != nil {
			return nil, err
		}
		tier = t
	}

	// Encode in parallel.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for _, it := range decoded {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			it.err = frameio.WriteFile(it.out, it.frame, it.format)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Created: time.Now().UTC(),
		Mode:    cfg.Mode,
		Tier:    tier,
		Entries: lo.Map(items, func(it *item, _ int) report.Entry {
			e := report.Entry{Input: it.path, Bias: it.bias}
			if it.frame != nil {
				e.Width, e.Height = it.frame.Width(), it.frame.Height()
			}
			if it.err != nil {
				e.Error = it.err.Error()
				slog.ErrorContext(ctx, "file failed", slog.String("file", it.path), slog.Any("error", it.err))
			} else {
				e.Output = it.out
			}
			return e
		}),
	}

	failed := len(rep.Failed())
	slog.InfoContext(ctx, "correction finished",
		slog.Int("files", len(items)),
		slog.Int("failed", failed),
		slog.Int("sizes", len(sizes)),
	)
	if failed > 0 {
		return rep, fmt.Errorf("%d of %d files failed", failed, len(items))
	}
	return rep, nil
}

// correctGroup runs one Batch over files that share a size, in place.
func correctGroup(ctx context.Context, cfg *config.Config, size [2]int, group []*item) (grayworld.Tier, error) {
	ctx = logging.AppendCtx(ctx, slog.Group("size", slog.Int("width", size[0]), slog.Int("height", size[1])))
	b, err := grayworld.NewBatch(grayworld.Config{
		Width:  size[0],
		Height: size[1],
		Mode:   cfg.Mode,
		Tier:   cfg.Tier,
		Logger: slog.Default(),
	}, min(cfg.Jobs, len(group)))
	if err != nil {
		return 0, err
	}
	defer b.Close()

	jobs := lo.Map(group, func(it *item, _ int) grayworld.Job {
		return grayworld.Job{Dst: it.frame, Src: it.frame}
	})
	start := time.Now()
	biases, err := b.Run(ctx, jobs)
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if err != nil {
		// Frames all match the batch size, so this only happens on bugs.
		return 0, err
	}
	for i, it := range group {
		it.bias = biases[i]
		slog.DebugContext(ctx, "corrected",
			slog.String("file", it.path),
			slog.Float64("bias_a", float64(it.bias.A)),
			slog.Float64("bias_b", float64(it.bias.B)),
		)
	}
	slog.InfoContext(ctx, "group corrected",
		slog.Int("files", len(group)),
		slog.String("tier", b.Tier().String()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return b.Tier(), nil
}

// claimOutputs names every item's output in argument order. An item whose
// output was already claimed by an earlier one fails instead of racing it.
func claimOutputs(cfg *config.Config, items []*item) {
	claimed := make(map[string]string, len(items))
	for _, it := range items {
		it.format, it.out, it.err = outputFor(cfg, it.path)
		if it.err != nil {
			continue
		}
		key := it.out
		if abs, err := filepath.Abs(it.out); err == nil {
			key = abs
		}
		if first, ok := claimed[key]; ok {
			it.err = fmt.Errorf("%s: output %s is already written for %s", it.path, it.out, first)
			continue
		}
		claimed[key] = it.path
	}
}

// outputFor names the corrected file: same base name in the output
// directory, with the extension of the output format.
func outputFor(cfg *config.Config, path string) (frameio.Format, string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	var format frameio.Format
	switch cfg.Format {
	case "png":
		format = frameio.PNG
	case "tiff", "tif":
		format = frameio.TIFF
	default:
		var err error
		if format, err = frameio.FormatFor(path); err != nil {
			format = frameio.PNG
		}
	}
	out := filepath.Join(cfg.OutDir, name+"."+string(format))
	if abs, err := filepath.Abs(out); err == nil {
		if src, err := filepath.Abs(path); err == nil && abs == src {
			return "", "", fmt.Errorf("%s: output would overwrite the input", path)
		}
	}
	return format, out, nil
}
