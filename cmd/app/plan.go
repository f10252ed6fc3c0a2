package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fedeciancaglini/trip-ai/cmd/fx/cache_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/config_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/planner_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/providers_fx"
	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one trip and print the result",
	Example: `  trip-ai plan --destination "Lisbon, Portugal" --start 2030-05-10 --end 2030-05-14 --budget 1500
  trip-ai plan --destination Paris --origin London --start 2030-06-01 --end 2030-06-03 --budget 900 --format yaml`,
	RunE: runPlan,
}

func init() {
	addPlanFlags(planCmd)
	_ = planCmd.MarkFlagRequired("destination")
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("destination", "", "Destination to plan for")
	cmd.Flags().String("origin", "", "Where the trip starts (optional)")
	cmd.Flags().String("start", "", "Start date, YYYY-MM-DD")
	cmd.Flags().String("end", "", "End date, YYYY-MM-DD")
	cmd.Flags().Float64("budget", 0, "Total accommodation budget in USD")
	cmd.Flags().Duration("timeout", 0, "Overall planning timeout (default from PLANNER_TIMEOUT_MS)")
	cmd.Flags().String("format", "json", "Output format (json or yaml)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	in, err := planInputFromFlags(cmd)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	format, _ := cmd.Flags().GetString("format")

	var tripPlanner planner.TripPlannerInterface
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		config_fx.Module,
		cache_fx.Module,
		providers_fx.Module,
		planner_fx.Module,
		fx.Populate(&tripPlanner),
	)
	if err := app.Start(cmd.Context()); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	state, err := tripPlanner.ExecuteTripPlanner(cmd.Context(), in, timeout)
	if err != nil {
		return err
	}
	return renderPlan(cmd.OutOrStdout(), state, format)
}

func planInputFromFlags(cmd *cobra.Command) (plan_models.PlanningInput, error) {
	var in plan_models.PlanningInput
	in.Destination, _ = cmd.Flags().GetString("destination")
	in.Origin, _ = cmd.Flags().GetString("origin")
	in.BudgetUSD, _ = cmd.Flags().GetFloat64("budget")

	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	var err error
	if start != "" {
		if in.StartDate, err = utils.ParseDate(start); err != nil {
			return in, err
		}
	}
	if end != "" {
		if in.EndDate, err = utils.ParseDate(end); err != nil {
			return in, err
		}
	}
	return in, nil
}

// renderPlan writes the state using its JSON field names in either format.
func renderPlan(w io.Writer, state *plan_models.PlanningState, format string) error {
	switch strings.ToLower(format) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case "yaml":
		raw, err := json.Marshal(state)
		if err != nil {
			return err
		}
		var generic map[string]any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(generic)
	default:
		return fmt.Errorf("unsupported output format: %s (use 'yaml' or 'json')", format)
	}
}
