package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeFile  string
	analyzeField string
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume text file",
	Long:  "Runs the extraction pipeline on a plain-text resume, scores it against the target field, and prints the canonical result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", analyzeFile)
		}

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Analyzer.Analyze(ctx, string(data), analyzeField)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("Field:            %s\n", result.Field)
		fmt.Printf("Experience level: %s\n", result.Level)
		fmt.Printf("Quality score:    %.1f\n", result.QualityScore)
		fmt.Printf("Backend tier:     %s\n", result.BackendTier)
		fmt.Println("Skills:")
		for _, s := range result.Skills {
			fmt.Printf("  %-24s %.2f  (%s)\n", s.Name, s.Confidence, s.SourceTier)
		}
		fmt.Println("Sub-scores:")
		for name, v := range result.SubScores {
			fmt.Printf("  %-16s %.2f\n", name, v)
		}
		if result.Salary != nil {
			fmt.Printf("Salary projection: $%d (%s band, %s)\n",
				result.Salary.Projected, result.Salary.Band, result.Salary.Field)
		}
		if len(result.CareerPaths) > 0 {
			fmt.Println("Career paths:")
			for _, p := range result.CareerPaths {
				fmt.Printf("  %s\n", p)
			}
		}

		zap.L().Info("analysis complete",
			zap.String("file", analyzeFile),
			zap.String("field", result.Field),
			zap.Float64("score", result.QualityScore),
		)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "path to resume text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeField, "field", "", "target career field (inferred when omitted)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print result as JSON")
	_ = analyzeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeCmd)
}
