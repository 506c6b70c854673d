package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/roboco-io/docx2xlsx/internal/batch"
	"github.com/spf13/cobra"
)

var (
	batchOutputDir string
	batchWorkers   int
	batchPattern   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir|files...>",
	Short: "여러 문서의 표를 일괄 추출",
	Long: `디렉토리 또는 파일 목록의 모든 문서에서 표를 추출합니다.

문서마다 <이름>_tables.xlsx 통합 문서가 출력 디렉토리에 만들어집니다.
한 문서의 실패는 다른 문서에 영향을 주지 않으며, 마지막에 요약표가
출력됩니다. 실패한 문서가 하나라도 있으면 종료 코드가 0이 아닙니다.

예시:
  docx2xlsx batch ./reports -o ./out
  docx2xlsx batch ./reports -o ./out --pattern "*.pdf" --workers 4
  docx2xlsx batch a.pdf b.docx -o ./out --keep-intermediate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", ".", "출력 디렉토리")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "동시 처리 문서 수 (기본: CPU 수)")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "", "디렉토리 검색 패턴 (기본: *.pdf,*.docx)")
	addPipelineFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	proc, cfg, err := newProcessor(cmd)
	if err != nil {
		return err
	}

	inputs, err := batch.Collect(args, cfg.Batch.Patterns())
	if err != nil {
		return fmt.Errorf("입력 파일 검색 실패: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("처리할 문서가 없습니다 (패턴: %s)", cfg.Batch.Pattern)
	}

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("출력 디렉토리 생성 실패: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "문서 %d개 처리 중...\n", len(inputs))
	report := batch.NewRunner(proc, cfg.Batch.Workers).Run(cmd.Context(), inputs, batchOutputDir)

	printReport(cmd, report)

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("문서 %d개 중 %d개 실패", len(report.Results), failed)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *batch.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "입력\t형식\t표\t경고\t결과\t시간")
	fmt.Fprintln(w, "----\t----\t--\t----\t----\t----")
	for _, res := range report.Results {
		result := filepath.Base(res.Output)
		if !res.OK() {
			result = "실패: " + res.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			filepath.Base(res.Input), res.Format, res.Tables, res.Warnings, result, res.Duration.Round(time.Millisecond))
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n성공 %d, 실패 %d (%s)\n",
		report.Succeeded(), report.Failed(), report.Duration.Round(time.Millisecond))
}
