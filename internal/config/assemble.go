package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"uniqint/internal/pipeline"
	"uniqint/pkg/registry"
)

var validate = validator.New()

// Validate 对最小必要边界做静态校验：结构标签 + 组件名已注册。
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid fields: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.InputDir) == "" || strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: input_dir/output_dir cannot be blank")
	}
	// 组件名若为空，使用默认名（由 Defaults() 提供）。此处只要最终有值即可。
	d := Defaults().Components
	if name := effName(cfg.Components.Reader, d.Reader); registry.Reader[name] == nil {
		return unknownComp("reader", name, registry.Names(registry.Reader))
	}
	if name := effName(cfg.Components.Splitter, d.Splitter); registry.Splitter[name] == nil {
		return unknownComp("splitter", name, registry.Names(registry.Splitter))
	}
	if name := effName(cfg.Components.Parser, d.Parser); registry.Parser[name] == nil {
		return unknownComp("parser", name, registry.Names(registry.Parser))
	}
	if name := effName(cfg.Components.Collector, d.Collector); registry.Collector[name] == nil {
		return unknownComp("collector", name, registry.Names(registry.Collector))
	}
	if name := effName(cfg.Components.Sorter, d.Sorter); registry.Sorter[name] == nil {
		return unknownComp("sorter", name, registry.Names(registry.Sorter))
	}
	if name := effName(cfg.Components.Assembler, d.Assembler); registry.Assembler[name] == nil {
		return unknownComp("assembler", name, registry.Names(registry.Assembler))
	}
	if name := effName(cfg.Components.Writer, d.Writer); registry.Writer[name] == nil {
		return unknownComp("writer", name, registry.Names(registry.Writer))
	}
	return nil
}

// Assemble 构造 Components 与 Settings。
// 严格 Options 解析在 registry（工厂）层进行；此处只传 raw JSON。
// 装配顺序：Parser 先行，Collector 注入 Parser，Sorter 取 Parser 的值域作为默认边界。
func Assemble(cfg Config) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	d := Defaults().Components
	names := Components{
		Reader:    effName(cfg.Components.Reader, d.Reader),
		Splitter:  effName(cfg.Components.Splitter, d.Splitter),
		Parser:    effName(cfg.Components.Parser, d.Parser),
		Collector: effName(cfg.Components.Collector, d.Collector),
		Sorter:    effName(cfg.Components.Sorter, d.Sorter),
		Assembler: effName(cfg.Components.Assembler, d.Assembler),
		Writer:    effName(cfg.Components.Writer, d.Writer),
	}

	fail := func(kind string, err error) (pipeline.Components, pipeline.Settings, error) {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.%s: %w", kind, err)
	}

	r, err := registry.Reader[names.Reader](cfg.Options.Reader)
	if err != nil {
		return fail("reader", err)
	}
	s, err := registry.Splitter[names.Splitter](cfg.Options.Splitter)
	if err != nil {
		return fail("splitter", err)
	}
	p, err := registry.Parser[names.Parser](cfg.Options.Parser)
	if err != nil {
		return fail("parser", err)
	}
	c, err := registry.Collector[names.Collector](cfg.Options.Collector, p)
	if err != nil {
		return fail("collector", err)
	}
	so, err := registry.Sorter[names.Sorter](cfg.Options.Sorter, p.Range())
	if err != nil {
		return fail("sorter", err)
	}
	asm, err := registry.Assembler[names.Assembler](cfg.Options.Assembler)
	if err != nil {
		return fail("assembler", err)
	}
	w, err := registry.Writer[names.Writer](cfg.Options.Writer)
	if err != nil {
		return fail("writer", err)
	}

	comp := pipeline.Components{
		Reader:    r,
		Splitter:  s,
		Parser:    p,
		Collector: c,
		Sorter:    so,
		Assembler: asm,
		Writer:    w,
	}
	set := pipeline.Settings{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
		SorterName:  names.Sorter,
	}
	return comp, set, nil
}

func unknownComp(kind, name string, known []string) error {
	return fmt.Errorf("config: %s %q not registered (known: %s)", kind, name, strings.Join(known, ", "))
}

func effName(got, def string) string {
	if got == "" {
		return def
	}
	return got
}
