// Package catalog builds and classifies the set of models available from the
// local LLM runtime, and resolves declared agent roles against it.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/raro42/hearthhub/internal/logging"
)

// SizeTier classifies a model by parameter count.
type SizeTier string

const (
	SizeSmall  SizeTier = "small"  // <4B
	SizeMedium SizeTier = "medium" // 4-15B
	SizeLarge  SizeTier = "large"  // >15B
)

// Capability is the coarse skill classification derived from a model's name.
type Capability string

const (
	CapabilityCode    Capability = "code"
	CapabilityGeneral Capability = "general"
)

// Model is one entry in the catalog, ordered by ascending parameter count.
type Model struct {
	Name             string
	Capability       Capability
	SizeTier         SizeTier
	ParameterBillion float64
}

// Catalog is the startup-built, read-only list of available models.
type Catalog struct {
	Models []Model
}

// bytesPerParameter is the heuristic used when a model reports no parsable
// parameter size: roughly half a byte per parameter for quantized weights.
const bytesPerParameter = 0.5e9

// Build queries the runtime's model list and classifies every entry.
func Build(ctx context.Context, client *api.Client) (*Catalog, error) {
	resp, err := client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list models: %w", err)
	}

	models := make([]Model, 0, len(resp.Models))
	for _, m := range resp.Models {
		billions := parameterBillions(m.Details.ParameterSize, m.Size)
		models = append(models, Model{
			Name:             m.Name,
			Capability:       classifyCapability(m.Name, m.Details.Family, m.Details.Families),
			SizeTier:         classifySizeTier(billions),
			ParameterBillion: billions,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ParameterBillion < models[j].ParameterBillion
	})

	for _, m := range models {
		logging.Infof("catalog: %s capability=%s size_tier=%s params=%.1fB", m.Name, m.Capability, m.SizeTier, m.ParameterBillion)
	}

	return &Catalog{Models: models}, nil
}

// parameterBillions parses a reported size like "7.6B" or "900M"; if that
// fails, it estimates from the model's on-disk byte size.
func parameterBillions(reported string, byteSize int64) float64 {
	if reported != "" {
		reported = strings.TrimSpace(reported)
		mult := 1.0
		switch {
		case strings.HasSuffix(reported, "B"):
			reported = strings.TrimSuffix(reported, "B")
		case strings.HasSuffix(reported, "M"):
			reported = strings.TrimSuffix(reported, "M")
			mult = 1e-3
		}
		if v, err := strconv.ParseFloat(reported, 64); err == nil {
			return v * mult
		}
	}
	if byteSize <= 0 {
		return 0
	}
	return float64(byteSize) / bytesPerParameter
}

func classifyCapability(name, family string, families []string) Capability {
	haystack := strings.ToLower(name + " " + family + " " + strings.Join(families, " "))
	if strings.Contains(haystack, "code") || strings.Contains(haystack, "coder") {
		return CapabilityCode
	}
	return CapabilityGeneral
}

func classifySizeTier(billions float64) SizeTier {
	switch {
	case billions < 4:
		return SizeSmall
	case billions <= 15:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// Find returns the catalog entry matching a model name, case-insensitive,
// matching either the full "name:tag" form or the bare name before ":".
func (c *Catalog) Find(name string) (Model, bool) {
	lower := strings.ToLower(name)
	prefix := strings.SplitN(lower, ":", 2)[0]
	for _, m := range c.Models {
		mLower := strings.ToLower(m.Name)
		if mLower == lower {
			return m, true
		}
		if strings.SplitN(mLower, ":", 2)[0] == prefix {
			return m, true
		}
	}
	return Model{}, false
}
