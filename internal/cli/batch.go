package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/momreport/report"
)

// batchResult 是批量生成中单个输入的结果。
type batchResult struct {
	input    string
	location string
	err      error
}

func newBatchCmd() *cobra.Command {
	var (
		out      outputOpts
		workers  int
		failFast bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file-or-dir>...",
		Short: "并发生成多份会议纪要 PDF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := appFromContext(ctx)
			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}
			gen, err := a.generator(ctx, out)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(max(workers, 1))
			var (
				mu      sync.Mutex
				results = make([]batchResult, 0, len(inputs))
			)
			for _, path := range inputs {
				g.Go(func() error {
					r := batchResult{input: path}
					defer func() {
						mu.Lock()
						results = append(results, r)
						mu.Unlock()
					}()
					in, err := readInput(path)
					if err != nil {
						r.err = err
						return failIf(failFast, err)
					}
					res, err := gen.Generate(gctx, *in, nil)
					if err != nil {
						r.err = err
						a.log.Error("生成失败", zap.String("input", path), zap.Error(err))
						return failIf(failFast, err)
					}
					r.location = res.Location
					if out.debugDir != "" {
						if err := writeDebug(out.debugDir, res.Filename, res.Result); err != nil {
							a.log.Warn("写入调试 JSON 失败", zap.Error(err))
						}
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			sort.Slice(results, func(i, j int) bool { return results[i].input < results[j].input })
			failed := 0
			w := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(w, "FAIL\t%s\t%s\t%v\n", r.input, report.CodeOf(r.err), r.err)
					continue
				}
				fmt.Fprintf(w, "OK\t%s\t%s\n", r.input, r.location)
			}
			if failed > 0 {
				return fmt.Errorf("%d/%d 份报告生成失败", failed, len(results))
			}
			return nil
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "并发数，默认取 MOM_WORKERS")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "任一输入失败时取消其余任务")
	return cmd
}

func failIf(failFast bool, err error) error {
	if failFast {
		return err
	}
	return nil
}

// collectInputs 展开参数中的目录（只取 .json 文件），结果按路径排序并去重。
func collectInputs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("无法读取 %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("无法读取目录 %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				add(filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("没有找到输入文件")
	}
	return out, nil
}
