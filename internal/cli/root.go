// Package cli implements the docx2xlsx command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	rootVerbose    bool
	rootQuiet      bool
	rootConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "docx2xlsx",
	Short: "DOCX/PDF 문서의 표를 Excel 통합 문서로 추출",
	Long: `docx2xlsx는 DOCX(또는 DOCX로 변환한 PDF) 문서의 모든 표를 원본 그대로
Excel 통합 문서로 추출합니다.

표마다 하나의 시트가 만들어지며, 시트 이름은 표 앞의 가장 최근 제목에서
가져옵니다. 위첨자/아래첨자(각주 표시, 화학식 등)는 _SUP/_SUB 시트에
기록되어 원본 셀 위치까지 추적할 수 있습니다.

표 내용은 해석하거나 정리하지 않습니다. 병합 셀 중복, 빈 행, 불규칙한
행 길이도 원본 그대로 유지됩니다.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docx2xlsx %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "상세 로그 출력")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "오류만 출력")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "설정 파일 경로 (기본: ~/.docx2xlsx/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx. Cancelling ctx stops batch
// scheduling and running conversions.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setupLogging installs the slog handler for the requested verbosity.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	switch {
	case rootVerbose:
		level = slog.LevelDebug
	case rootQuiet:
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
