package reporting

import (
	"fmt"
	"strings"

	"venture-fund-lab/internal/domain"
)

// RenderCSV renders distribution metric rows as a CSV string.
func RenderCSV(metrics []MetricRow) string {
	var sb strings.Builder

	sb.WriteString("metric,mean,std_dev,p5,p25,p50,p75,p95,min,max\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			m.Name,
			m.Mean,
			m.StdDev,
			m.P5,
			m.P25,
			m.P50,
			m.P75,
			m.P95,
			m.Min,
			m.Max,
		))
	}

	return sb.String()
}

// RenderSamplesCSV renders per-scenario samples as a CSV string.
func RenderSamplesCSV(samples []*domain.ScenarioSample) string {
	var sb strings.Builder

	sb.WriteString("run_id,index,irr,multiple,dpi,tvpi,total_value,exit_timing_years,follow_on_need,stage,band\n")

	for _, s := range samples {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%s\n",
			s.RunID,
			s.Index,
			s.IRR,
			s.Multiple,
			s.DPI,
			s.TVPI,
			s.TotalValue,
			s.ExitTimingYears,
			s.FollowOnNeed,
			s.Stage,
			s.Band,
		))
	}

	return sb.String()
}
