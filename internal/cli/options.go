package cli

import (
	"fmt"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/batch"
	"github.com/roboco-io/docx2xlsx/internal/config"
	"github.com/roboco-io/docx2xlsx/internal/convert"
	"github.com/roboco-io/docx2xlsx/internal/export"
	"github.com/roboco-io/docx2xlsx/internal/extract"
	"github.com/spf13/cobra"
)

// newLoader returns the loader for --config, or the default location.
func newLoader() (*config.Loader, error) {
	if rootConfigPath != "" {
		return config.NewLoaderWithPath(rootConfigPath), nil
	}
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	return loader, nil
}

// loadConfig reads the config file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("환경 변수 적용 실패: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("잘못된 설정: %w", err)
	}
	return cfg, nil
}

// addPipelineFlags registers the flags shared by extract and batch.
func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("flag-layout", "", "첨자 시트 배치 (consolidated, per_table)")
	f.Bool("dedupe-merged-flags", false, "병합 셀에서 반복되는 첨자 기록 생략")
	f.String("heading-pattern", "", "제목으로 인식할 정규식 (쉼표로 구분)")
	f.String("converter", "", "PDF 변환기 프리셋 (converters 명령 참고)")
	f.Bool("keep-intermediate", false, "PDF에서 변환된 DOCX를 출력 파일 옆에 보존 (기존 파일은 덮어쓰지 않음)")
}

// applyPipelineFlags copies explicitly set pipeline flags onto cfg.
func applyPipelineFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	keys := []struct {
		flag string
		key  string
	}{
		{"flag-layout", "export.flag_layout"},
		{"dedupe-merged-flags", "export.dedupe_merged_flags"},
		{"heading-pattern", "heading.patterns"},
		{"converter", "convert.converter"},
		{"keep-intermediate", "batch.keep_intermediate"},
		{"workers", "batch.workers"},
		{"pattern", "batch.pattern"},
	}
	for _, k := range keys {
		flag := f.Lookup(k.flag)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := cfg.Set(k.key, flag.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", k.flag, err)
		}
		if k.flag == "converter" {
			cfg.Convert.Command = ""
		}
	}
	return nil
}

// newConverter builds the PDF converter: an explicit command wins over the
// named preset.
func newConverter(cfg config.ConvertConfig) (convert.Converter, error) {
	if cfg.Command != "" {
		return convert.NewCommandConverter(cfg.Command, cfg.Args, cfg.Timeout), nil
	}
	preset, err := convert.Get(cfg.Converter)
	if err != nil {
		return nil, fmt.Errorf("%w (사용 가능: %s)", err, strings.Join(convert.List(), ", "))
	}
	c := preset.Converter(cfg.Timeout)
	if len(cfg.Args) > 0 {
		c.Args = cfg.Args
	}
	return c, nil
}

// pipelineOptions maps the configuration onto the pipeline options.
func pipelineOptions(cfg *config.Config) (batch.Options, error) {
	conv, err := newConverter(cfg.Convert)
	if err != nil {
		return batch.Options{}, err
	}

	opts := batch.DefaultOptions()
	opts.Extract.Detector = extract.DetectorOptions{
		UnicodeMarkers: cfg.Detect.UnicodeMarkers,
		RequireDigit:   cfg.Detect.RequireDigit,
		SmallFontRatio: cfg.Detect.SmallFontRatio,
	}
	opts.Extract.Heading = extract.HeadingOptions{
		UseStyles: cfg.Heading.UseStyles,
		AllCaps:   cfg.Heading.AllCaps,
		Patterns:  cfg.Heading.Patterns,
	}
	opts.Export = export.Options{
		FlagLayout:        export.FlagLayout(cfg.Export.FlagLayout),
		DedupeMergedFlags: cfg.Export.DedupeMergedFlags,
	}
	opts.Converter = conv
	opts.KeepIntermediate = cfg.Batch.KeepIntermediate
	opts.OutputSuffix = cfg.Batch.OutputSuffix
	opts.Workers = cfg.Batch.Workers
	return opts, nil
}

// newProcessor loads the configuration, applies cmd's flags and builds a
// processor from it.
func newProcessor(cmd *cobra.Command) (*batch.Processor, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := applyPipelineFlags(cmd, cfg); err != nil {
		return nil, nil, err
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	proc, err := batch.NewProcessor(opts)
	if err != nil {
		return nil, nil, err
	}
	return proc, cfg, nil
}
