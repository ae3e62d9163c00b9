package economics

import (
	"fmt"

	"quanta-tokenomics/internal/domain"
)

// tier indexes into a basis-point vector
const (
	idxTop = iota
	idxProfitable
	idxBreakEven
	idxLoser
	tierCount
)

var minLoserBP = domain.ToBasisPoints(domain.MinLoserPercent)

// RebalanceTiers applies an edit to one tier and restores the sum-to-100
// invariant.
//
// Editing a non-loser tier pushes the complement into the loser tier, floored
// at MinLoserPercent. When the floor engages, the remaining non-loser tiers
// are rescaled proportionally so the total is exactly 100. Editing the loser
// tier rescales the other three proportionally.
func RebalanceTiers(current domain.TierSplit, field domain.ParamField, value float64) domain.TierSplit {
	edited := tierIndex(field)
	if edited < 0 {
		return current
	}

	bp := toBP(current)
	bp[edited] = clampBP(domain.ToBasisPoints(value))

	if edited == idxLoser {
		bp[idxLoser] = max(bp[idxLoser], minLoserBP)
		return fromBP(squeeze(bp, idxLoser))
	}

	others := bp[idxTop] + bp[idxProfitable] + bp[idxBreakEven]
	bp[idxLoser] = max(minLoserBP, domain.BasisPointsTotal-others)
	if sum(bp) == domain.BasisPointsTotal {
		return fromBP(bp)
	}
	return fromBP(squeeze(bp, edited, idxLoser))
}

// NormalizeTiers makes an arbitrary split satisfy the invariant: all four
// tiers are rescaled proportionally to sum to 100, then the loser floor is
// restored by rescaling the other three. An all-zero split yields the
// default split.
func NormalizeTiers(t domain.TierSplit) domain.TierSplit {
	bp := toBP(t)
	total := sum(bp)
	if total == 0 {
		return domain.DefaultTierSplit()
	}
	if total != domain.BasisPointsTotal {
		copy(bp[:], largestRemainder(bp[:], domain.BasisPointsTotal))
	}
	if bp[idxLoser] < minLoserBP {
		bp[idxLoser] = minLoserBP
		bp = squeeze(bp, idxLoser)
	}
	return fromBP(bp)
}

// TierDistribution returns the chart slices for the current tier split.
func TierDistribution(p domain.EconomicParameters) []domain.TierSlice {
	n := max(0, p.TotalSignalGenerators)
	return []domain.TierSlice{
		{Name: "Top Tier", Percent: p.TopTierPercent, Count: floorShare(n, percent(p.TopTierPercent))},
		{Name: "Profitable", Percent: p.ProfitablePercent, Count: floorShare(n, percent(p.ProfitablePercent))},
		{Name: "Break-Even", Percent: p.BreakEvenPercent, Count: floorShare(n, percent(p.BreakEvenPercent))},
		{Name: "Penalty", Percent: p.LoserPercent, Count: floorShare(n, percent(p.LoserPercent))},
	}
}

// ApplyEdit applies a single control edit: the value is clamped to the
// field's range, and tier edits are rebalanced.
func ApplyEdit(p domain.EconomicParameters, field domain.ParamField, value float64) (domain.EconomicParameters, error) {
	r, ok := domain.ParameterRanges[field]
	if !ok {
		return p, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	v := r.Clamp(value)

	if field.IsTier() {
		p.TierSplit = RebalanceTiers(p.TierSplit, field, v)
		return p, nil
	}

	next, _ := p.WithField(field, v)
	return next, nil
}

// squeeze keeps the fixed tiers and rescales the free ones proportionally
// into what remains of 100%. If the fixed tiers alone exceed 100%, the first
// fixed tier gives up the overflow.
func squeeze(bp [tierCount]int64, fixed ...int) [tierCount]int64 {
	isFixed := [tierCount]bool{}
	var fixedSum int64
	for _, i := range fixed {
		isFixed[i] = true
		fixedSum += bp[i]
	}

	if over := fixedSum - domain.BasisPointsTotal; over > 0 {
		bp[fixed[0]] = max(0, bp[fixed[0]]-over)
		fixedSum -= over
	}
	remaining := domain.BasisPointsTotal - fixedSum

	free := make([]int, 0, tierCount)
	weights := make([]int64, 0, tierCount)
	for i := 0; i < tierCount; i++ {
		if !isFixed[i] {
			free = append(free, i)
			weights = append(weights, bp[i])
		}
	}
	if len(free) == 0 {
		return bp
	}

	var weightSum int64
	for _, w := range weights {
		weightSum += w
	}
	if weightSum == 0 {
		// nothing to scale: the neutral tier takes the remainder
		target := free[0]
		for _, i := range free {
			bp[i] = 0
			if i == idxBreakEven {
				target = i
			}
		}
		bp[target] = remaining
		return bp
	}

	scaled := largestRemainder(weights, remaining)
	for k, i := range free {
		bp[i] = scaled[k]
	}
	return bp
}

// largestRemainder scales integer weights to sum exactly to target.
// Leftover units go to the largest fractional remainders, ties by index.
func largestRemainder(weights []int64, target int64) []int64 {
	out := make([]int64, len(weights))
	var total int64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return out
	}

	rems := make([]int64, len(weights))
	var assigned int64
	for i, w := range weights {
		out[i] = w * target / total
		rems[i] = w * target % total
		assigned += out[i]
	}

	for left := target - assigned; left > 0; left-- {
		best := 0
		for i := range rems {
			if rems[i] > rems[best] {
				best = i
			}
		}
		out[best]++
		rems[best] = -1
	}
	return out
}

func tierIndex(f domain.ParamField) int {
	switch f {
	case domain.FieldTopTierPercent:
		return idxTop
	case domain.FieldProfitablePercent:
		return idxProfitable
	case domain.FieldBreakEvenPercent:
		return idxBreakEven
	case domain.FieldLoserPercent:
		return idxLoser
	}
	return -1
}

func toBP(t domain.TierSplit) [tierCount]int64 {
	return [tierCount]int64{
		clampBP(domain.ToBasisPoints(nonNegative(t.TopTierPercent))),
		clampBP(domain.ToBasisPoints(nonNegative(t.ProfitablePercent))),
		clampBP(domain.ToBasisPoints(nonNegative(t.BreakEvenPercent))),
		clampBP(domain.ToBasisPoints(nonNegative(t.LoserPercent))),
	}
}

func fromBP(bp [tierCount]int64) domain.TierSplit {
	return domain.TierSplit{
		TopTierPercent:    domain.FromBasisPoints(bp[idxTop]),
		ProfitablePercent: domain.FromBasisPoints(bp[idxProfitable]),
		BreakEvenPercent:  domain.FromBasisPoints(bp[idxBreakEven]),
		LoserPercent:      domain.FromBasisPoints(bp[idxLoser]),
	}
}

func clampBP(bp int64) int64 {
	return min(domain.BasisPointsTotal, max(0, bp))
}

func sum(bp [tierCount]int64) int64 {
	var s int64
	for _, v := range bp {
		s += v
	}
	return s
}
