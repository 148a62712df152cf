package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a PDF, DOCX or TXT resume and print the assessment",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Bool("json", false, "print the result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	extracted, err := services.NewTextExtractor().ExtractFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("text extracted",
		zap.String("file", args[0]),
		zap.String("format", extracted.Format),
		zap.Int("pages", extracted.PageCount),
	)

	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	result, err := engine.Analyze(extracted.Text)
	if err != nil {
		var verr *analyzer.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if asJSON {
			if err := writeJSON(out, verr.Verdict); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "Rejected (%s): %s\n", verr.Verdict.Check, verr.Verdict.Reason)
		}
		return errRejected
	}

	if asJSON {
		return writeJSON(out, result)
	}
	printResult(out, result)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, r *analyzer.Result) {
	fmt.Fprintf(w, "Score: %d (%s)\n", r.Score, r.ProfessionalAssessment)
	fmt.Fprintf(w, "Policy: %s, words: %d\n\n", r.Policy, r.WordCount)

	b := r.ScoreBreakdown
	fmt.Fprintf(w, "Breakdown: base %d, technical %d, soft %d, certifications %d, metrics %d, achievements %d, length %d\n\n",
		b.Base, b.Technical, b.Soft, b.Certifications, b.Metrics, b.Achievements, b.Length)

	printList(w, "Strengths", r.Strengths)
	printList(w, "Improvements", r.Improvements)
	printList(w, "Key differentiators", r.KeyDifferentiators)

	fmt.Fprintln(w, "Technical skills:")
	for _, g := range r.Details.TechnicalSkills {
		if len(g.Matched) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", g.Name, strings.Join(g.Matched, ", "))
		}
	}
	fmt.Fprintln(w, "Soft skills:")
	for _, g := range r.Details.SoftSkills {
		if len(g.Matched) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", g.Name, strings.Join(g.Matched, ", "))
		}
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w)
}
