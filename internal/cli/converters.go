package cli

import (
	"fmt"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/roboco-io/docx2xlsx/internal/convert"
	"github.com/spf13/cobra"
)

var converterLookPath = exec.LookPath

var convertersCmd = &cobra.Command{
	Use:   "converters",
	Short: "사용 가능한 PDF 변환기 목록",
	Long: `PDF 입력을 DOCX로 변환하는 변환기 프리셋 목록을 표시합니다.

각 변환기는 해당 명령이 PATH에 설치되어 있어야 사용할 수 있습니다.
설정 파일의 convert.command로 임의의 명령을 지정할 수도 있습니다.
인자에서 {input}, {output}, {outdir}은 실제 경로로 치환됩니다.

사용 예시:
  docx2xlsx extract report.pdf --converter libreoffice
  docx2xlsx config set convert.converter libreoffice`,
	Run: runConverters,
}

func init() {
	rootCmd.AddCommand(convertersCmd)
}

func runConverters(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "변환기\t명령\t상태\t설명")
	fmt.Fprintln(w, "------\t----\t----\t----")

	for _, name := range convert.List() {
		p, err := convert.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Name, p.Command+" "+strings.Join(p.Args, " "), checkConverterStatus(p), p.Description)
	}
}

func checkConverterStatus(p convert.Preset) string {
	if _, err := converterLookPath(p.Command); err != nil {
		return "✗ 미설치"
	}
	return "✓ 사용가능"
}
