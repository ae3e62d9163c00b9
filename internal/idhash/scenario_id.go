package idhash

import (
	"crypto/sha256"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"quanta-tokenomics/internal/domain"
)

// ComputeScenarioID computes a deterministic scenario code using SHA256.
// Formula: SHA256(field=value|field=value|...) over every parameter in
// canonical field order, floats in shortest round-trip form.
// Returns the base58-encoded hash, safe to paste into a URL.
func ComputeScenarioID(p domain.EconomicParameters) string {
	parts := make([]string, 0, len(domain.Fields()))
	for _, f := range domain.Fields() {
		v, _ := p.Field(f)
		parts = append(parts, string(f)+"="+formatFloat(v))
	}
	return encode(strings.Join(parts, "|"))
}

func formatFloat(v float64) string {
	// -0 and 0 must hash the same
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func encode(data string) string {
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
