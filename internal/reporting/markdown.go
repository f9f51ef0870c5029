package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Portfolio Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Seed: %d | Scenarios: %d | Took: %dms\n\n",
		r.RunID, r.SeedUsed, r.ScenarioCount, r.ExecutionTimeMs))

	// Configuration
	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Time Horizon | %dy |\n", r.Config.TimeHorizonYears))
	sb.WriteString(fmt.Sprintf("| Portfolio Size | %d |\n", r.Config.PortfolioSize))
	sb.WriteString(fmt.Sprintf("| Deployed Capital | %.2f |\n", r.Config.DeployedCapital))
	sb.WriteString(fmt.Sprintf("| Reserve Ratio | %.2f |\n", r.Config.ReserveRatio))
	sb.WriteString("\n")

	if len(r.Config.StageWeights) > 0 {
		sb.WriteString("### Stage Weights\n\n")
		sb.WriteString("| Stage | Weight |\n")
		sb.WriteString("|-------|--------|\n")
		for _, w := range r.Config.StageWeights {
			sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", w.Stage, w.Weight))
		}
		sb.WriteString("\n")
	}

	// Distributions
	sb.WriteString("## Distributions\n\n")
	if len(r.Metrics) > 0 {
		sb.WriteString("| Metric | Mean | StdDev | P5 | P25 | P50 | P75 | P95 | Min | Max |\n")
		sb.WriteString("|--------|------|--------|----|-----|-----|-----|-----|-----|-----|\n")
		for _, m := range r.Metrics {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				m.Name, m.Mean, m.StdDev, m.P5, m.P25, m.P50, m.P75, m.P95, m.Min, m.Max))
		}
	} else {
		sb.WriteString("No distribution data available.\n")
	}
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| VaR 95 | %.4f |\n", r.Risk.VaR95))
	sb.WriteString(fmt.Sprintf("| VaR 99 | %.4f |\n", r.Risk.VaR99))
	sb.WriteString(fmt.Sprintf("| CVaR 95 | %.4f |\n", r.Risk.CVaR95))
	sb.WriteString(fmt.Sprintf("| CVaR 99 | %.4f |\n", r.Risk.CVaR99))
	sb.WriteString(fmt.Sprintf("| Probability of Loss | %.4f |\n", r.Risk.ProbabilityOfLoss))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.Risk.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.Risk.MaxDrawdown))
	sb.WriteString("\n")

	// Reserve optimization
	if r.Reserve != nil {
		sb.WriteString("## Reserve Optimization\n\n")
		sb.WriteString(fmt.Sprintf("Optimal ratio: %.2f (improvement %+.4f over lowest candidate)\n\n",
			r.Reserve.OptimalRatio, r.Reserve.Improvement))
		sb.WriteString("| Ratio | Objective | Optimal |\n")
		sb.WriteString("|-------|-----------|---------|\n")
		for _, c := range r.Reserve.Candidates {
			marker := ""
			if c.Optimal {
				marker = "*"
			}
			sb.WriteString(fmt.Sprintf("| %.2f | %.4f | %s |\n", c.Ratio, c.Objective, marker))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
