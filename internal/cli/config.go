package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/roboco-io/docx2xlsx/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정 관리",
	Long: `docx2xlsx 설정을 관리합니다.

설정 파일 위치: ~/.docx2xlsx/config.yaml (--config로 변경 가능)

하위 명령:
  show    현재 설정 표시
  init    기본 설정 파일 생성
  set     설정 값 변경
  path    설정 파일 경로 표시`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "현재 설정 표시",
	Long: `현재 적용된 설정을 표시합니다.

환경 변수가 설정되어 있으면 해당 값이 적용됩니다.
설정 파일이 없으면 기본값이 표시됩니다.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "기본 설정 파일 생성",
	Long: `기본 설정 파일을 ~/.docx2xlsx/config.yaml에 생성합니다.

이미 설정 파일이 있는 경우 오류가 발생합니다.
기존 파일을 덮어쓰려면 --force 플래그를 사용하세요.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "설정 값 변경",
	Long: `설정 값을 변경합니다.

지원하는 키:
  detect.unicode_markers      유니코드 첨자 문자(¹, ₂)를 첨자로 인식 (true, false)
  detect.require_digit        숫자가 있는 셀만 첨자로 표시 (true, false)
  detect.small_font_ratio     작은 글꼴 숫자를 위첨자로 볼 비율 (0은 비활성)
  heading.use_styles          제목 스타일 사용 (true, false)
  heading.all_caps            대문자 줄을 제목으로 인식 (true, false)
  heading.patterns            제목 정규식 (쉼표로 구분)
  export.flag_layout          첨자 시트 배치 (consolidated, per_table)
  export.dedupe_merged_flags  병합 셀 중복 첨자 생략 (true, false)
  convert.converter           PDF 변환기 프리셋 (pdf2docx, libreoffice)
  convert.command             변환 명령 직접 지정
  convert.timeout             변환 제한 시간 (예: 10m)
  batch.workers               동시 처리 문서 수 (0은 CPU 수)
  batch.pattern               일괄 처리 검색 패턴
  batch.keep_intermediate     변환된 DOCX 보존 (true, false)
  batch.output_suffix         출력 파일 이름 접미사

예시:
  docx2xlsx config set export.flag_layout per_table
  docx2xlsx config set convert.converter libreoffice
  docx2xlsx config set heading.patterns "(?i)^table\\s+\\d+,^Figure"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "설정 파일 경로 표시",
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := newLoader()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "오류: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "기존 설정 파일 덮어쓰기")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	// Show config file status
	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "설정 파일: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "설정 파일: (기본값 사용)\n\n")
	}

	// Display as YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 출력 실패: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	// Show environment variable overrides
	fmt.Fprintln(cmd.OutOrStdout(), "환경 변수:")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	envVars := []struct {
		key   string
		desc  string
		value string
	}{
		{config.EnvConfigPath, "설정 파일 경로", os.Getenv(config.EnvConfigPath)},
		{config.EnvWorkers, "동시 처리 문서 수", os.Getenv(config.EnvWorkers)},
		{config.EnvConverter, "PDF 변환기 프리셋", os.Getenv(config.EnvConverter)},
		{config.EnvKeepIntermediate, "변환된 DOCX 보존", os.Getenv(config.EnvKeepIntermediate)},
	}

	for _, ev := range envVars {
		status := "(미설정)"
		if ev.value != "" {
			status = ev.value
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	w.Flush()

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("설정 파일이 이미 존재합니다: %s\n덮어쓰려면 --force 플래그를 사용하세요", loader.ConfigPath())
	}

	create := loader.Init
	if configForce {
		create = func() error { return loader.Save(config.DefaultConfig()) }
	}
	if err := create(); err != nil {
		return fmt.Errorf("설정 파일 생성 실패: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "설정 파일 생성됨: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	loader, err := newLoader()
	if err != nil {
		return err
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("설정 변경 실패: %w", err)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("설정 저장 실패: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "설정 변경됨: %s = %s\n", key, value)
	return nil
}
