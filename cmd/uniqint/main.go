package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	cfgpkg "uniqint/internal/config"
	"uniqint/internal/diag"
	"uniqint/internal/pipeline"
	"uniqint/pkg/contract"
)

// 退出码
const (
	exitOK           = 0
	exitFailures     = 1
	exitMissingInput = 2
	exitConfig       = 3
)

var (
	pipelineRun = pipeline.Run
	processFile = pipeline.ProcessFile

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// CLI：默认批处理 INPUT_DIR → OUTPUT_DIR；--in/--out 单文件；--interactive 交互式。
// 优先级：CLI > ENV(.env) > 配置文件 > 默认值。
func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()
	corrID := uuid.NewString()
	// 在任何 ENV 读取前加载工作目录下的 .env（不覆盖已有 ENV）。
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fprintf(os.Stderr, "提示：.env 读取失败（已跳过）：%v\n", err)
	}
	// 先以默认等级与目录占位，配置合并后重建
	logger := diag.NewLogger(corrID, "info", diag.DefaultLogDir)

	var (
		flagConfig      string
		flagInputDir    string
		flagOutputDir   string
		flagIn          string
		flagOut         string
		flagInteractive bool
		flagConcurrency int
		flagSorter      string
		flagLogLevel    string
		flagMetricsFile string
		flagInitDir     string
		flagStatus      bool
	)
	flag.StringVar(&flagConfig, "config", "", "配置文件路径（.json 或 .hcl）；缺省读取 ./config.json 或 ./config.hcl（若存在）")
	flag.StringVar(&flagInputDir, "input-dir", "", "输入目录（覆盖配置；默认 inputs）")
	flag.StringVar(&flagOutputDir, "output-dir", "", "输出目录（覆盖配置；默认 outputs）")
	flag.StringVar(&flagIn, "in", "", "单文件模式：输入文件路径（需与 --out 同时提供）")
	flag.StringVar(&flagOut, "out", "", "单文件模式：输出文件路径")
	flag.BoolVar(&flagInteractive, "interactive", false, "交互模式：依次提示输入/输出路径")
	flag.IntVar(&flagConcurrency, "concurrency", 0, "并发处理的文件数（覆盖配置）")
	flag.StringVar(&flagSorter, "sorter", "", "排序实现：quick|counting（覆盖配置）")
	flag.StringVar(&flagLogLevel, "log-level", "", "日志等级：debug|info|warn|error（覆盖配置）")
	flag.StringVar(&flagMetricsFile, "metrics-file", "", "运行结束时写出 prometheus textfile 指标")
	flag.StringVar(&flagInitDir, "init-config", "", "在指定目录生成默认配置 config.json 和 .env 模板（若已存在则跳过，不覆盖）；不带值时默认当前目录")
	flag.BoolVar(&flagStatus, "status", true, "终端状态提示（stderr）。TTY 动态刷新；非 TTY 打点输出")
	normalizeInitArg()
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	// --init-config: 生成模板并退出
	if dir := strings.TrimSpace(flagInitDir); dir != "" {
		if err := initConfig(dir); err != nil {
			fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
			logger.Error("config", string(diag.Classify(err)), "init-config failed", &start)
			return exitConfig
		}
		return exitOK
	}

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		fprintf(os.Stderr, "配置解析失败: %v\n", err)
		logger.Error("config", string(diag.Classify(err)), "load failed", &start)
		return exitConfig
	}

	// CLI 覆盖
	var overCLI cfgpkg.Config
	if args := flag.Args(); len(args) > 0 {
		overCLI.InputDir = args[0]
	}
	if flagInputDir != "" {
		overCLI.InputDir = flagInputDir
	}
	overCLI.OutputDir = flagOutputDir
	overCLI.Concurrency = flagConcurrency
	overCLI.Components.Sorter = strings.TrimSpace(flagSorter)
	overCLI.Logging.Level = strings.ToLower(strings.TrimSpace(flagLogLevel))
	overCLI.Metrics.File = flagMetricsFile
	cfg = cfgpkg.Merge(cfg, overCLI)

	if err := cfgpkg.Validate(cfg); err != nil {
		fprintf(os.Stderr, "配置校验失败: %v\n", err)
		_ = dumpConfig(cfg)
		logger.Error("config", string(diag.Classify(err)), "validate failed", &start)
		return exitConfig
	}
	if (flagIn == "") != (flagOut == "") {
		fprintf(os.Stderr, "单文件模式需要同时提供 --in 与 --out\n")
		return exitConfig
	}

	// 使用最终配置中的日志级别与目录重建 logger
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = diag.DefaultLogDir
	}
	_ = logger.Close()
	logger = diag.NewLogger(corrID, cfg.Logging.Level, logDir)
	defer logger.Close()

	comp, set, err := cfgpkg.Assemble(cfg)
	if err != nil {
		fprintf(os.Stderr, "装配失败: %v\n", err)
		logger.Error("config", string(diag.Classify(err)), "assemble failed", &start)
		return exitConfig
	}

	logger.DebugStart("config", "effective", "", map[string]string{
		"input_dir":   cfg.InputDir,
		"output_dir":  cfg.OutputDir,
		"concurrency": fmt.Sprintf("%d", cfg.Concurrency),
		"reader":      cfg.Components.Reader,
		"splitter":    cfg.Components.Splitter,
		"parser":      cfg.Components.Parser,
		"collector":   cfg.Components.Collector,
		"sorter":      set.SorterName,
		"assembler":   cfg.Components.Assembler,
		"writer":      cfg.Components.Writer,
	})

	// 终端信息提示（非日志）：按 CLI 启用，默认开启
	term := diag.NewTerminal(os.Stderr, flagStatus && !flagInteractive)
	diag.SetTerminal(term)
	defer diag.SetTerminal(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var code int
	switch {
	case flagInteractive:
		code = runInteractive(ctx, comp, logger)
	case flagIn != "":
		code = runSingle(ctx, comp, flagIn, flagOut, logger)
	default:
		code = runBatch(ctx, comp, set, logger)
	}

	if cfg.Metrics.File != "" {
		if err := diag.WriteMetrics(cfg.Metrics.File); err != nil {
			fprintf(os.Stderr, "提示：指标写出失败：%v\n", err)
			logger.Warn("diag", "metrics write failed", map[string]string{"err": err.Error()})
		}
	}
	return code
}

// loadConfig: 默认值 → 配置文件（或 UNIQINT_CONFIG_JSON）→ ENV 覆盖。
func loadConfig(path string) (cfgpkg.Config, error) {
	cfg := cfgpkg.Defaults()

	var raw []byte
	if s := os.Getenv(cfgpkg.EnvPrefix + "CONFIG_JSON"); s != "" {
		raw = []byte(s)
	}
	if path == "" {
		path = os.Getenv(cfgpkg.EnvPrefix + "CONFIG_FILE")
	}
	// 默认读取工作目录下 config.json / config.hcl（若存在）
	if path == "" && len(raw) == 0 {
		for _, p := range []string{"config.json", "config.hcl"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	var (
		base cfgpkg.Config
		err  error
	)
	switch {
	case len(raw) > 0:
		base, err = cfgpkg.LoadJSON("", raw)
	case path != "":
		base, err = cfgpkg.LoadFile(path)
	}
	if err != nil {
		return cfg, err
	}
	cfg = cfgpkg.Merge(cfg, base)

	overEnv, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		return cfg, err
	}
	return cfgpkg.Merge(cfg, overEnv), nil
}

func runBatch(ctx context.Context, comp pipeline.Components, set pipeline.Settings, logger *diag.Logger) int {
	t := logger.StartWithKV("pipeline", "run", "", map[string]string{"input_dir": set.InputDir, "output_dir": set.OutputDir})
	sum, err := pipelineRun(ctx, comp, set, logger)
	if err != nil {
		code := exitCode(err)
		logStageErr(logger, "run failed", t.Since(), err)
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, contract.ErrMissingInput):
			fprintf(os.Stderr, "错误：输入目录 '%s' 不存在\n", set.InputDir)
		default:
			fprintf(os.Stderr, "运行失败: %v\n", err)
		}
		return code
	}
	for _, r := range sum.FailedResults() {
		fprintf(os.Stderr, "处理失败 %s: %v\n", r.FileID, r.Err)
	}
	t.FinishKV("run", int64(sum.Files), map[string]string{
		"failed":    fmt.Sprintf("%d", sum.Failed),
		"values":    fmt.Sprintf("%d", sum.Values),
		"mem_delta": fmt.Sprintf("%d", sum.MemDelta),
	})
	if sum.Failed > 0 {
		return exitFailures
	}
	return exitOK
}

func runSingle(ctx context.Context, comp pipeline.Components, in, out string, logger *diag.Logger) int {
	term := diag.GetTerminal()
	term.FileStart(in)
	st, err := processFile(ctx, comp, in, out, logger)
	term.FileFinish(in, err == nil, st.Values, st.Elapsed, st.MemDelta)
	if err != nil {
		fprintf(os.Stderr, "处理失败 %s: %v\n", in, err)
		return exitCode(err)
	}
	report(st)
	return exitOK
}

// runInteractive: 提示输入路径（不存在则退出 2），再提示输出路径。
func runInteractive(ctx context.Context, comp pipeline.Components, logger *diag.Logger) int {
	br := bufio.NewReader(stdin)
	in, err := prompt(br, "输入文件路径: ")
	if err != nil {
		fprintf(os.Stderr, "读取输入失败: %v\n", err)
		return exitConfig
	}
	if _, err := os.Stat(in); err != nil {
		fprintf(os.Stderr, "错误：输入文件 '%s' 不存在\n", in)
		logger.Error("reader", string(diag.CodeMissingInput), "input not found", nil)
		return exitMissingInput
	}
	out, err := prompt(br, "输出文件路径: ")
	if err != nil {
		fprintf(os.Stderr, "读取输出路径失败: %v\n", err)
		return exitConfig
	}
	if out == "" {
		fprintf(os.Stderr, "输出路径不能为空\n")
		return exitConfig
	}
	st, err := processFile(ctx, comp, in, out, logger)
	if err != nil {
		fprintf(os.Stderr, "处理失败 %s: %v\n", in, err)
		return exitCode(err)
	}
	report(st)
	return exitOK
}

func prompt(br *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(stdout, label)
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func report(st pipeline.Stats) {
	_, _ = fmt.Fprintf(stdout, "处理完成，用时 %.4f 秒\n", st.Elapsed.Seconds())
	_, _ = fmt.Fprintf(stdout, "内存变化: %d 字节\n", st.MemDelta)
}

// exitCode: 输入缺失 → 2；其余运行期错误 → 1。
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, contract.ErrMissingInput):
		return exitMissingInput
	default:
		return exitFailures
	}
}

func logStageErr(logger *diag.Logger, msg string, since *time.Time, err error) {
	code := string(diag.Classify(err))
	logger.ErrorWithKV("pipeline", code, msg, since, "", map[string]string{"err": err.Error()})
	if code != string(diag.CodeUnknown) {
		diag.IncError("pipeline", code)
	}
}

func fprintf(w io.Writer, format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

func dumpConfig(c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	_, _ = os.Stderr.Write(append([]byte("有效配置:\n"), b...))
	_, _ = os.Stderr.Write([]byte("\n"))
	return nil
}

// normalizeInitArg: 允许 --init-config 在未提供路径值时采用默认值当前目录 "."。
//
//	--init-config                => 等价于 --init-config .
//	--init-config=out
//	--init-config out
func normalizeInitArg() {
	args := os.Args
	if len(args) <= 1 {
		return
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0])
	for i := 1; i < len(args); i++ {
		a := args[i]
		out = append(out, a)
		if a == "--init-config" || a == "-init-config" {
			if i == len(args)-1 || strings.HasPrefix(args[i+1], "-") {
				out = append(out, ".")
			}
		}
	}
	os.Args = out
}
