package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"agri-backend/internal/soil"
	"agri-backend/internal/soilanalyses"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		file      string
		outputFmt string
	)
	readings := map[soil.Parameter]*float64{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a soil parameter set",
		Long: `Scores readings given as flags or loaded from a JSON or YAML file.
Flags override values read from the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := soil.ParameterSet{}
			if file != "" {
				loaded, err := loadParameterFile(file)
				if err != nil {
					return err
				}
				set = loaded
			}
			for p, v := range readings {
				if cmd.Flags().Changed(string(p)) {
					set[string(p)] = soil.Number(*v)
				}
			}
			if err := soilanalyses.ValidateParameters("", set); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputFmt, soil.Analyze(set))
		},
	}

	for _, p := range soil.Known {
		readings[p] = new(float64)
		cmd.Flags().Float64Var(readings[p], string(p), 0, fmt.Sprintf("%s reading", p))
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a JSON or YAML parameter file")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "json", "Output format: json or yaml")

	return cmd
}

// loadParameterFile reads a parameter set. YAML is converted to JSON first so
// readings decode the same way they do over HTTP.
func loadParameterFile(path string) (soil.ParameterSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	set := soil.ParameterSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return set, nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
