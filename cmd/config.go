package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Olivia010207/NPS/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set nps configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status_column: %s\n", c.StatusColumn)
		fmt.Fprintf(out, "valid_status: %s\n", c.ValidStatus)
		fmt.Fprintf(out, "id_column: %s\n", c.IDColumn)
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "max_rank: %d\n", c.MaxRank)
		fmt.Fprintf(out, "merge_other: %t\n", c.MergeOther)
		fmt.Fprintf(out, "other_keywords: %s\n", strings.Join(c.OtherKeywords, ","))
		fmt.Fprintf(out, "other_label: %s\n", c.OtherLabel)
		fmt.Fprintf(out, "free_text_markers: %s\n", strings.Join(c.FreeTextMarkers, ","))
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "server_addr: %s\n", c.ServerAddr)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(out, "batch_workers: %d\n", c.BatchWorkers)
		for _, dq := range c.DerivedQuestions {
			fmt.Fprintf(out, "derived_question: %s from %s (%d buckets)\n", dq.QuestionID, dq.Source, len(dq.Buckets))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: "Set a config value and save to disk. Keys: " + strings.Join(cfgpkg.Keys(), ", ") +
		".\nList values are comma-separated. derived_questions is edited in the file directly.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
