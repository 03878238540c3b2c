package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	matchResumeFile string
	matchJobFile    string
	matchField      string
	matchJSON       bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resume against a job description",
	Long:  "Analyzes the resume, extracts required skills from the job description, and reports similarity, matched skills, and the skill gap.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		resumeText, err := os.ReadFile(matchResumeFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", matchResumeFile)
		}
		jobText, err := os.ReadFile(matchJobFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", matchJobFile)
		}

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Analyzer.Analyze(ctx, string(resumeText), matchField)
		if err != nil {
			return eris.Wrap(err, "analyze resume")
		}

		match, err := env.Analyzer.Match(ctx, result, string(jobText))
		if err != nil {
			return eris.Wrap(err, "match")
		}

		if matchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(match)
		}

		fmt.Printf("Similarity:     %.2f (%s, %s tier)\n", match.Similarity, match.Label, match.SimilarityTier)
		fmt.Printf("Matched skills: %s\n", strings.Join(match.MatchedSkills, ", "))
		fmt.Printf("Missing skills: %s\n", strings.Join(match.MissingSkills, ", "))
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchResumeFile, "resume", "r", "", "path to resume text file (required)")
	matchCmd.Flags().StringVarP(&matchJobFile, "job", "j", "", "path to job description text file (required)")
	matchCmd.Flags().StringVar(&matchField, "field", "", "target career field (inferred when omitted)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print result as JSON")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}
