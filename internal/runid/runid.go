// Package runid computes deterministic simulation-run identifiers.
package runid

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"

	"venture-fund-lab/internal/domain"
)

// Compute derives a run ID from the canonical config fields and the seed
// actually used. Formula: base58(SHA256(count|horizon|size|capital|
// reserve|seed|stage:weight,...)) with stage weights serialized in fixed
// canonical-stage order so map iteration cannot perturb the hash.
func Compute(cfg domain.SimulationConfig, seedUsed int64) string {
	var weights strings.Builder
	stages := make([]domain.Stage, 0, len(cfg.StageWeights))
	for s := range cfg.StageWeights {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	for _, s := range stages {
		fmt.Fprintf(&weights, "%s:%.12f,", s, cfg.StageWeights[s])
	}

	data := fmt.Sprintf("%d|%d|%d|%.12f|%.12f|%d|%s",
		cfg.ScenarioCount,
		cfg.TimeHorizonYears,
		cfg.PortfolioSize,
		cfg.DeployedCapital,
		cfg.ReserveRatio,
		seedUsed,
		weights.String(),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
