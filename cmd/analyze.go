package cmd

import (
	"github.com/spf13/cobra"
)

var (
	anaFlags  = requestFlags{mergeOther: true}
	anaOutput string
	anaFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run one analysis on a survey export",
	Long: `Run one analysis on a survey export and print it as Markdown or JSON,
or write it to a workbook (.xlsx), a JSON/Markdown file or a CSV directory.

Examples:
  nps analyze survey.xlsx -t nps -q S1
  nps analyze survey.xlsx -t cross --row S2 --col S1 --stat nps --percent
  nps analyze survey.xlsx -t rank -q R4 --max-rank 3 -o rank.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := anaFlags.build(cmd.Flags())
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
		path := args[0]
		ds, err := loadDataset(path)
		if err != nil {
			return err
		}
		b, err := newService(ds, path).Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeBundle(cmd.OutOrStdout(), b, anaOutput, anaFormat)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.bind(analyzeCmd.Flags())
	addLoadFlags(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "output path: .xlsx, .json, .md or a directory for CSV files")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "markdown", "stdout format when no --output: markdown|json")
}
