package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/wanderpack/internal/config"
	"github.com/dukerupert/wanderpack/internal/packing"
)

var (
	genRules      string
	genType       string
	genActivities string
	genPack       string
	genStart      string
	genEnd        string
	genTemp       float64
	genJSON       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a packing checklist for the given trip parameters",
	Example: `  wanderpack generate --type Adventure --activities Hiking,Photography --pack light
  wanderpack generate --start 2025-07-01 --end 2025-07-20 --temp 31 --json`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genRules, "rules", "", "YAML rule table (default: built-in rules)")
	f.StringVar(&genType, "type", "", "trip type")
	f.StringVar(&genActivities, "activities", "", "comma-separated activities")
	f.StringVar(&genPack, "pack", "", "packing preference: light, normal or heavy")
	f.StringVar(&genStart, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&genEnd, "end", "", "end date (YYYY-MM-DD)")
	f.Float64Var(&genTemp, "temp", 0, "expected temperature in °C")
	f.BoolVar(&genJSON, "json", false, "print the list as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rules, err := packing.LoadRules(genRules)
	if err != nil {
		return err
	}
	engine := packing.NewEngine(rules)

	req := packing.Request{
		TripType:   genType,
		Activities: config.SplitList(genActivities),
		Pack:       genPack,
		StartDate:  genStart,
		EndDate:    genEnd,
	}
	if cmd.Flags().Changed("temp") {
		req.TempC = &genTemp
	}
	if err := engine.Validate(req); err != nil {
		opts := engine.Options()
		return fmt.Errorf("%w (types: %s; activities: %s; packs: %s)", err,
			strings.Join(opts.TripTypes, ", "), strings.Join(opts.Activities, ", "), strings.Join(opts.Packs, ", "))
	}

	items := engine.Generate(req)
	out := cmd.OutOrStdout()
	if genJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{"items": items})
	}
	for _, it := range items {
		fmt.Fprintf(out, "[ ] %s\n", it)
	}
	return nil
}
