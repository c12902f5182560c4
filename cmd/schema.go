package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Olivia010207/NPS/internal/utils"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "List the questions inferred from a survey export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := loadDataset(path)
		if err != nil {
			return err
		}
		svc := newService(ds, path)
		out := cmd.OutOrStdout()
		switch strings.ToLower(schemaFormat) {
		case "json":
			data, err := utils.PrettyJSON(svc.Questions())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		case "markdown", "md", "":
			fmt.Fprintf(out, "%d respondents, %d questions\n\n", ds.Responses.Len(), len(ds.Schema.QuestionIDs()))
			fmt.Fprint(out, svc.QuestionsTable().Markdown())
			for _, m := range ds.Schema.Mismatches() {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", m)
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown or json)", schemaFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	addLoadFlags(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "markdown", "output format: markdown|json")
}
