package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evidfuse/evidfuse/infrastructure/export"
	"github.com/evidfuse/evidfuse/infrastructure/middleware"
	"github.com/evidfuse/evidfuse/internal/application"
	"github.com/evidfuse/evidfuse/internal/domain"
)

var analyzeFlags struct {
	rule                 string
	conflictThreshold    float64
	pessimism            float64
	priorityMethod       string
	confidenceFactor     float64
	consistencyThreshold float64
	trace                bool
	formats              []string
	outputDir            string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <study-file>",
	Short: "Fuse a study's expert judgments into a ranked assessment",
	Long: `Analyze loads a study file (YAML, or XML by extension), runs the full
fusion pipeline, and prints the ranking with belief-plausibility
intervals. Results can additionally be exported to JSON, CSV, or XML.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	defaults := application.DefaultAnalysisConfig()

	analyzeCmd.Flags().StringVar(&analyzeFlags.rule, "rule", defaults.Rule,
		"combination rule (dempster, yager, adaptive)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.conflictThreshold, "conflict-threshold", defaults.ConflictThreshold,
		"adaptive rule switch point in [0,1]")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.pessimism, "pessimism", defaults.Pessimism,
		"ranking score weight on belief vs plausibility in [0,1]")
	analyzeCmd.Flags().StringVar(&analyzeFlags.priorityMethod, "priority-method", defaults.PriorityMethod,
		"priority vector derivation (geometric, eigenvector)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.confidenceFactor, "confidence", defaults.ConfidenceFactor,
		"share of priority mass committed to singletons in (0,1]")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.consistencyThreshold, "consistency-threshold", defaults.ConsistencyThreshold,
		"maximum accepted consistency ratio in (0,1]")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.trace, "trace", false,
		"print the per-step fold trace")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.formats, "export", nil,
		"export formats (json, csv, xml); repeatable or comma separated")
	analyzeCmd.Flags().StringVar(&analyzeFlags.outputDir, "output-dir", "results",
		"directory for exported result files")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cobraCmd *cobra.Command, args []string) error {
	config := application.AnalysisConfig{
		Rule:                 analyzeFlags.rule,
		ConflictThreshold:    analyzeFlags.conflictThreshold,
		Pessimism:            analyzeFlags.pessimism,
		PriorityMethod:       analyzeFlags.priorityMethod,
		ConfidenceFactor:     analyzeFlags.confidenceFactor,
		ConsistencyThreshold: analyzeFlags.consistencyThreshold,
	}

	loader := application.NewStudyLoader()
	study, err := loader.LoadFromFile(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	metrics := middleware.NewPrometheusMetrics()
	analyzer, err := application.NewAnalyzer(config,
		application.WithMetrics(metrics),
		application.WithObserver(middleware.NewOTelAnalysisObserver(metrics, study.Name)),
	)
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(cobraCmd.Context(), study)
	if err != nil {
		return err
	}

	printSummary(cobraCmd, study, res)
	if analyzeFlags.trace {
		printTrace(cobraCmd, res)
	}

	return exportResult(cobraCmd, study, res)
}

func printSummary(cobraCmd *cobra.Command, study *application.Study, res *domain.Result) {
	out := cobraCmd.OutOrStdout()
	fmt.Fprintf(out, "Study: %s (run %s)\n", study.Name, res.RunID)
	fmt.Fprintf(out, "Rule: %s (τ=%.2f), priorities: %s, γ=%.2f\n\n",
		res.Params.Rule, res.Params.ConflictThreshold, res.Params.PriorityMethod, res.Params.Pessimism)

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tALTERNATIVE\tSCORE\tBELIEF\tPLAUSIBILITY")
	for _, ra := range res.Ranking {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\n",
			ra.Rank, ra.ID, ra.Score, ra.Interval.Belief, ra.Interval.Plausibility)
	}
	w.Flush()
	fmt.Fprintf(out, "\nBest alternative: %s\n", res.Best)
}

func printTrace(cobraCmd *cobra.Command, res *domain.Result) {
	out := cobraCmd.OutOrStdout()
	fmt.Fprintln(out, "\nFold trace:")
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tCRITERION\tSOURCE\tSTEP\tCONFLICT\tRULE")
	for _, step := range res.Steps {
		criterion := step.CriterionID
		if criterion == "" {
			criterion = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
			step.Stage, criterion, step.SourceID, step.Step, step.Conflict, step.Rule)
	}
	w.Flush()
}

func exportResult(cobraCmd *cobra.Command, study *application.Study, res *domain.Result) error {
	if len(analyzeFlags.formats) == 0 {
		return nil
	}

	if err := os.MkdirAll(analyzeFlags.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.ReplaceAll(study.Name, string(filepath.Separator), "_")
	for _, format := range analyzeFlags.formats {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		path := filepath.Join(analyzeFlags.outputDir,
			fmt.Sprintf("%s_%s.%s", base, res.RunID, exporter.Format()))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := exporter.Export(f, res); err != nil {
			f.Close()
			return fmt.Errorf("exporting %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cobraCmd.OutOrStdout(), "Exported %s\n", path)
	}
	return nil
}
