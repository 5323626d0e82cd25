package main

import (
	"github.com/spf13/cobra"

	"agri-backend/internal/soil"
)

type cropsOutput struct {
	SuitableCrops []soil.SuitableCrop `json:"suitableCrops" yaml:"suitableCrops"`
	SoilHealth    soil.Health         `json:"soilHealth" yaml:"soilHealth"`
	OverallScore  int                 `json:"overallScore" yaml:"overallScore"`
}

func newCropsCmd() *cobra.Command {
	var (
		ph, nitrogen, phosphorus, potassium, moisture float64
		outputFmt                                     string
	)

	cmd := &cobra.Command{
		Use:   "crops",
		Short: "List crops suited to the given readings",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := soil.Values{soil.PH: ph, soil.Nitrogen: nitrogen}
			optional := map[soil.Parameter]float64{
				soil.Phosphorus: phosphorus,
				soil.Potassium:  potassium,
				soil.Moisture:   moisture,
			}
			for p, v := range optional {
				if cmd.Flags().Changed(string(p)) {
					values[p] = v
				}
			}
			result := soil.AnalyzeValues(values)
			return writeOutput(cmd.OutOrStdout(), outputFmt, cropsOutput{
				SuitableCrops: result.SuitableCrops,
				SoilHealth:    result.SoilHealth,
				OverallScore:  result.OverallScore,
			})
		},
	}

	cmd.Flags().Float64Var(&ph, "ph", 0, "pH reading (required)")
	cmd.Flags().Float64Var(&nitrogen, "nitrogen", 0, "Nitrogen reading (required)")
	cmd.Flags().Float64Var(&phosphorus, "phosphorus", 0, "Phosphorus reading")
	cmd.Flags().Float64Var(&potassium, "potassium", 0, "Potassium reading")
	cmd.Flags().Float64Var(&moisture, "moisture", 0, "Moisture reading")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "json", "Output format: json or yaml")
	for _, name := range []string{"ph", "nitrogen"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
