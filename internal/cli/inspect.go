package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roboco-io/docx2xlsx/internal/export"
	"github.com/roboco-io/docx2xlsx/internal/extract"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
	inspectPretty bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "통합 문서를 만들지 않고 표 구조 확인",
	Long: `문서를 파싱하여 감지된 형식, 표마다의 시트 이름, 제목, 크기,
위첨자/아래첨자 셀 수를 출력합니다. 통합 문서는 만들지 않습니다.

PDF 입력은 임시 디렉토리에서 변환된 뒤 삭제됩니다.

예시:
  docx2xlsx inspect report.docx
  docx2xlsx inspect report.pdf --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "출력 형식 (text, json)")
	inspectCmd.Flags().BoolVar(&inspectPretty, "pretty", true, "JSON 들여쓰기 적용")
	addPipelineFlags(inspectCmd)

	rootCmd.AddCommand(inspectCmd)
}

// inspection is the dry-run summary of one document.
type inspection struct {
	Input   string           `json:"input"`
	Format  string           `json:"format"`
	Title   string           `json:"title,omitempty"`
	Pages   int              `json:"pages,omitempty"`
	Scanned bool             `json:"scanned,omitempty"`
	Tables  []inspectedTable `json:"tables"`
}

type inspectedTable struct {
	Index    int      `json:"index"`
	Sheet    string   `json:"sheet"`
	Heading  string   `json:"heading,omitempty"`
	Rows     int      `json:"rows"`
	MaxCols  int      `json:"max_cols"`
	Sup      int      `json:"sup"`
	Sub      int      `json:"sub"`
	Warnings []string `json:"warnings,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectFormat != "text" && inspectFormat != "json" {
		return fmt.Errorf("지원하지 않는 출력 형식: %s", inspectFormat)
	}

	proc, _, err := newProcessor(cmd)
	if err != nil {
		return err
	}

	src, err := proc.Open(cmd.Context(), args[0], "")
	if err != nil {
		return fmt.Errorf("문서 열기 실패: %w", err)
	}
	defer src.Close()

	doc, err := proc.Load(src)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	res, err := proc.Extractor().Extract(doc)
	if err != nil {
		return fmt.Errorf("표 추출 실패: %w", err)
	}

	in := inspection{
		Input:  args[0],
		Format: src.Format.String(),
		Title:  res.Metadata.Title,
		Tables: make([]inspectedTable, 0, len(res.Tables)),
	}
	if src.PDF != nil {
		in.Pages = src.PDF.Pages
		in.Scanned = src.PDF.Scanned()
	}
	for _, t := range res.Tables {
		in.Tables = append(in.Tables, summarize(t, proc.ExportOptions()))
	}

	if inspectFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), in)
	}
	writeInspection(cmd.OutOrStdout(), in)
	return nil
}

// summarize counts flags the way the workbook's _INDEX sheet does.
func summarize(t extract.NamedTable, opts export.Options) inspectedTable {
	return inspectedTable{
		Index:    t.Index,
		Sheet:    t.Name,
		Heading:  t.Heading,
		Rows:     t.RowCount(),
		MaxCols:  t.MaxCols(),
		Sup:      opts.Count(t.Grid, extract.FlagSup),
		Sub:      opts.Count(t.Grid, extract.FlagSub),
		Warnings: t.Warnings,
	}
}

func writeJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if inspectPretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeInspection(out io.Writer, in inspection) {
	fmt.Fprintf(out, "파일: %s\n", in.Input)
	fmt.Fprintf(out, "형식: %s\n", in.Format)
	if in.Title != "" {
		fmt.Fprintf(out, "제목: %s\n", in.Title)
	}
	if in.Pages > 0 {
		fmt.Fprintf(out, "페이지: %d\n", in.Pages)
	}
	if in.Scanned {
		fmt.Fprintln(out, "경고: 텍스트가 없는 PDF입니다 (스캔 문서일 수 있음)")
	}
	fmt.Fprintf(out, "표: %d개\n", len(in.Tables))
	if len(in.Tables) == 0 {
		return
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\t시트\t제목\t행\t최대 열\tSUP\tSUB")
	for _, t := range in.Tables {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n", t.Index, t.Sheet, t.Heading, t.Rows, t.MaxCols, t.Sup, t.Sub)
	}
	w.Flush()

	for _, t := range in.Tables {
		for _, warning := range t.Warnings {
			fmt.Fprintf(out, "경고 (표 %d): %s\n", t.Index, warning)
		}
	}
}
