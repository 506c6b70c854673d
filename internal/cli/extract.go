package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboco-io/docx2xlsx/internal/batch"
	"github.com/spf13/cobra"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "문서 하나의 표를 Excel 통합 문서로 추출",
	Long: `DOCX 또는 PDF 문서 하나에서 모든 표를 추출하여 Excel 통합 문서로 저장합니다.

PDF는 먼저 설정된 변환기(기본: pdf2docx)로 DOCX로 변환됩니다.
출력 경로를 지정하지 않으면 입력 파일 옆에 <이름>_tables.xlsx로 저장됩니다.

예시:
  docx2xlsx extract report.docx
  docx2xlsx extract report.pdf -o tables.xlsx
  docx2xlsx extract report.pdf --keep-intermediate
  docx2xlsx extract report.docx --flag-layout per_table`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: <이름>_tables.xlsx)")
	addPipelineFlags(extractCmd)

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("파일을 찾을 수 없습니다: %s", inputPath)
	}

	proc, cfg, err := newProcessor(cmd)
	if err != nil {
		return err
	}

	output := extractOutput
	if output == "" {
		output = batch.OutputPath(inputPath, filepath.Dir(inputPath), cfg.Batch.OutputSuffix)
	}

	res := proc.Process(cmd.Context(), inputPath, output)
	if !res.OK() {
		return fmt.Errorf("표 추출 실패: %w", res.Err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "표 %d개 추출 완료: %s\n", res.Tables, res.Output)
	if res.Intermediate != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "변환된 DOCX: %s\n", res.Intermediate)
	}
	if res.Warnings > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "경고 %d건 (_INDEX 시트 참고)\n", res.Warnings)
	}
	return nil
}
