package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"uniqint/internal/diag"
	"uniqint/pkg/contract"
)

// - 单点并发：仅此层管理并发；原子组件均为同步、无内部并发。
// - 单文件隔离：任一文件失败只记录并计数，不影响其他文件。
// - 失败不落盘：单文件任一阶段失败时不产生输出文件，已存在的输出保持原样。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader   contract.Reader
	Splitter contract.Splitter
	// Parser 已注入 Collector；此处保留用于值域查询与展示。
	Parser    contract.LineParser
	Collector contract.Collector
	Sorter    contract.Sorter
	Assembler contract.Assembler
	Writer    contract.Writer
}

// Settings 批处理运行期配置（最小必要）。
type Settings struct {
	InputDir    string
	OutputDir   string
	Concurrency int
	// SorterName 仅用于终端展示。
	SorterName string
}

// Stats 单文件处理的诊断信息。
type Stats struct {
	Lines    int64
	Values   int
	Elapsed  time.Duration
	MemDelta int64
}

// FileResult 批处理中单个文件的结果。
type FileResult struct {
	FileID contract.FileID
	Output string
	Stats  Stats
	Err    error
}

// Summary 批处理总览；Results 按 FileID 字典序排列。
type Summary struct {
	Files    int
	Failed   int
	Values   int
	Elapsed  time.Duration
	MemDelta int64
	Results  []FileResult
}

// ProcessFile 处理单个文件：Prepare → Open → Split/Collect → Sort → Assemble → Write。
// 返回的错误包装 contract 哨兵错误；panic 被恢复并以 ErrUnexpected 返回。
func ProcessFile(ctx context.Context, comp Components, in, out string, logger *diag.Logger) (st Stats, err error) {
	if err := sanity(comp); err != nil {
		return Stats{}, fmt.Errorf("sanity: %w", err)
	}
	fid := contract.NormalizeFileID(in)
	t0 := time.Now()
	mem0 := diag.MemorySample()
	ftimer := logger.StartWith("pipeline", "process", string(fid))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", contract.ErrUnexpected, r)
			logStageErr(logger, "pipeline", "panic recovered", string(fid), ftimer.Since(), err)
		}
		st.Elapsed = time.Since(t0)
		st.MemDelta = diag.MemorySample() - mem0
		diag.ObserveDuration("pipeline", "file", st.Elapsed.Milliseconds())
		if err != nil {
			diag.IncOp("pipeline", "file", "error")
			return
		}
		diag.IncOp("pipeline", "file", "success")
		ftimer.FinishKV("process", int64(st.Values), map[string]string{
			"lines":     fmt.Sprintf("%d", st.Lines),
			"mem_delta": fmt.Sprintf("%d", st.MemDelta),
		})
	}()
	st, err = processFile(ctx, comp, fid, out, logger)
	if err != nil {
		err = classifyKind(err)
	}
	return st, err
}

func processFile(ctx context.Context, comp Components, fid contract.FileID, out string, logger *diag.Logger) (Stats, error) {
	var st Stats

	// 先确保输出目录存在，再读输入
	wtimer := logger.StartWith("writer", "prepare", string(fid))
	if err := comp.Writer.Prepare(ctx, filepath.Dir(out)); err != nil {
		logStageErr(logger, "writer", "prepare failed", string(fid), wtimer.Since(), err)
		return st, fmt.Errorf("writer prepare: %w", err)
	}
	wtimer.Finish("prepare", 0)

	rtimer := logger.StartWith("reader", "open", string(fid))
	rc, err := comp.Reader.Open(ctx, fid)
	if err != nil {
		logStageErr(logger, "reader", "open failed", string(fid), rtimer.Since(), err)
		return st, fmt.Errorf("reader open: %w", err)
	}
	rtimer.Finish("open", 0)

	ctimer := logger.StartWith("collector", "collect", string(fid))
	lines := contract.Lines(ctx, comp.Splitter, fid, rc)
	seq := func(yield func(contract.Record) error) error {
		return lines(func(r contract.Record) error {
			st.Lines++
			return yield(r)
		})
	}
	values, err := comp.Collector.Collect(ctx, seq)
	_ = rc.Close()
	if err != nil {
		logStageErr(logger, "collector", "collect failed", string(fid), ctimer.Since(), err)
		return st, fmt.Errorf("collector collect: %w", err)
	}
	ctimer.FinishKV("collect", int64(len(values)), map[string]string{"lines": fmt.Sprintf("%d", st.Lines)})
	diag.IncOp("collector", "finish", "success")

	stimer := logger.StartWith("sorter", "sort", string(fid))
	if err := comp.Sorter.Sort(values); err != nil {
		logStageErr(logger, "sorter", "sort failed", string(fid), stimer.Since(), err)
		return st, fmt.Errorf("sorter sort: %w", err)
	}
	stimer.Finish("sort", int64(len(values)))

	atimer := logger.StartWith("assembler", "assemble", string(fid))
	r, err := comp.Assembler.Assemble(ctx, fid, values)
	if err != nil {
		logStageErr(logger, "assembler", "assemble failed", string(fid), atimer.Since(), err)
		return st, fmt.Errorf("assembler assemble: %w", err)
	}
	atimer.Finish("assemble", int64(len(values)))

	wtimer = logger.StartWithKV("writer", "write", string(fid), map[string]string{"dest": out})
	if err := comp.Writer.Write(ctx, out, r); err != nil {
		logStageErr(logger, "writer", "write failed", string(fid), wtimer.Since(), err)
		return st, fmt.Errorf("writer write: %w", err)
	}
	wtimer.Finish("write", int64(len(values)))
	diag.IncOp("writer", "finish", "success")

	st.Values = len(values)
	return st, nil
}

// Run 批处理：列出 InputDir 下的输入文件，逐个（或经有界 worker 池）处理到 OutputDir。
// 输入目录不存在时返回 ErrMissingInput 且不创建输出目录；
// 单文件失败计入 Summary.Failed，不中断其余文件。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (Summary, error) {
	if err := sanity(comp); err != nil {
		return Summary{}, fmt.Errorf("sanity: %w", err)
	}
	if set.Concurrency < 1 {
		set.Concurrency = 1
	}
	t0 := time.Now()
	mem0 := diag.MemorySample()

	rtimer := logger.StartWithKV("reader", "list", "", map[string]string{"root": set.InputDir})
	ids, err := comp.Reader.List(ctx, set.InputDir)
	if err != nil {
		logStageErr(logger, "reader", "list failed", "", rtimer.Since(), err)
		return Summary{}, fmt.Errorf("reader list: %w", err)
	}
	rtimer.Finish("list", int64(len(ids)))

	wtimer := logger.StartWithKV("writer", "prepare", "", map[string]string{"dir": set.OutputDir})
	if err := comp.Writer.Prepare(ctx, set.OutputDir); err != nil {
		logStageErr(logger, "writer", "prepare failed", "", wtimer.Since(), err)
		return Summary{}, fmt.Errorf("writer prepare: %w", err)
	}
	wtimer.Finish("prepare", 0)

	term := diag.GetTerminal()
	term.RunStart(set.Concurrency, set.SorterName, len(ids))

	results := make([]FileResult, len(ids))
	seen := make(map[string]contract.FileID, len(ids))
	for i, id := range ids {
		results[i].FileID = id
		dest, err := contract.ResultPath(set.OutputDir, id)
		if err == nil {
			// 递归扫描时不同子目录的同名文件会映射到同一输出
			if prev, dup := seen[dest]; dup {
				err = fmt.Errorf("%w: %s collides with %s", contract.ErrPathInvalid, id, prev)
			} else {
				seen[dest] = id
			}
		}
		results[i].Output = dest
		results[i].Err = err
	}

	one := func(i int) {
		res := &results[i]
		if res.Err != nil {
			logStageErr(logger, "pipeline", "result path invalid", string(res.FileID), nil, res.Err)
			term.FileStart(string(res.FileID))
			term.FileFinish(string(res.FileID), false, 0, 0, 0)
			return
		}
		term.FileStart(string(res.FileID))
		res.Stats, res.Err = ProcessFile(ctx, comp, string(res.FileID), res.Output, logger)
		term.FileFinish(string(res.FileID), res.Err == nil, res.Stats.Values, res.Stats.Elapsed, res.Stats.MemDelta)
	}

	if set.Concurrency == 1 || len(ids) < 2 {
		for i := range ids {
			one(i)
		}
	} else {
		// 有界通道形成自然背压
		jobs := make(chan int, set.Concurrency*2)
		var wg sync.WaitGroup
		workers := set.Concurrency
		if workers > len(ids) {
			workers = len(ids)
		}
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					one(i)
				}
			}()
		}
		for i := range ids {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	sum := Summary{Files: len(ids), Results: results}
	for _, r := range results {
		if r.Err != nil {
			sum.Failed++
			continue
		}
		sum.Values += r.Stats.Values
	}
	diag.AddValues(sum.Values)
	sum.Elapsed = time.Since(t0)
	sum.MemDelta = diag.MemorySample() - mem0
	term.RunFinish(sum.Failed == 0, sum.Elapsed, sum.MemDelta)
	logger.InfoFinish("pipeline", "run", t0, int64(sum.Files))
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// FailedResults 返回失败的文件结果（保持顺序）。
func (s Summary) FailedResults() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// logStageErr: 统一记录阶段错误日志与指标。
func logStageErr(logger *diag.Logger, comp, msg, fileID string, since *time.Time, err error) {
	code := diag.Classify(err)
	logger.ErrorWithKV(comp, string(code), msg, since, fileID, map[string]string{"err": err.Error()})
	diag.IncOp(comp, "error", "error")
	if code != diag.CodeUnknown {
		diag.IncError(comp, string(code))
	}
}

// classifyKind: 未携带已知哨兵的错误统一归为 ErrUnexpected；取消原样返回。
func classifyKind(err error) error {
	for _, k := range []error{
		context.Canceled, context.DeadlineExceeded,
		contract.ErrMissingInput, contract.ErrDirCreate, contract.ErrRead, contract.ErrWrite,
		contract.ErrUnexpected,
	} {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", contract.ErrUnexpected, err)
}

func sanity(c Components) error {
	if c.Reader == nil || c.Splitter == nil || c.Collector == nil || c.Sorter == nil || c.Assembler == nil || c.Writer == nil {
		return errors.New("pipeline: missing components")
	}
	return nil
}
