package catalog

import (
	"github.com/raro42/hearthhub/internal/logging"
)

// Role is a declared agent model preference.
type Role string

const (
	RoleCode    Role = "code"
	RoleGeneral Role = "general"
	RoleSmall   Role = "small"
)

const maxAutoSelectBillions = 15

// Resolve picks the best-fit model for a declared role per the catalog's
// ordering, preferring models at or below maxAutoSelectBillions; only when
// no model is that small does it fall back to the smallest model overall.
func (c *Catalog) Resolve(role Role) (Model, bool) {
	switch role {
	case RoleCode:
		return c.resolveCode()
	case RoleSmall:
		return c.resolveSmall()
	default:
		return c.resolveGeneral()
	}
}

func (c *Catalog) resolveCode() (Model, bool) {
	if m, ok := highestParam(c.Models, func(m Model) bool {
		return m.Capability == CapabilityCode && m.ParameterBillion <= maxAutoSelectBillions
	}); ok {
		return m, true
	}
	return c.resolveGeneral()
}

func (c *Catalog) resolveGeneral() (Model, bool) {
	if m, ok := highestParam(c.Models, func(m Model) bool {
		return m.Capability == CapabilityGeneral && m.ParameterBillion <= maxAutoSelectBillions
	}); ok {
		return m, true
	}
	if m, ok := highestParam(c.Models, func(m Model) bool {
		return m.ParameterBillion <= maxAutoSelectBillions
	}); ok {
		return m, true
	}
	return smallest(c.Models)
}

func (c *Catalog) resolveSmall() (Model, bool) {
	if m, ok := smallestMatching(c.Models, func(m Model) bool {
		return m.ParameterBillion <= maxAutoSelectBillions
	}); ok {
		return m, true
	}
	return smallest(c.Models)
}

// ResolveOverride honors an explicit per-agent model name if it is present in
// the catalog, otherwise falls through to role resolution with a warning.
func (c *Catalog) ResolveOverride(explicitModel string, role Role) (Model, bool) {
	if explicitModel != "" {
		if m, ok := c.Find(explicitModel); ok {
			return m, true
		}
		logging.Warnf("catalog: explicit model %q not found, falling back to role %q", explicitModel, role)
	}
	return c.Resolve(role)
}

func highestParam(models []Model, match func(Model) bool) (Model, bool) {
	var best Model
	found := false
	for _, m := range models {
		if !match(m) {
			continue
		}
		if !found || m.ParameterBillion > best.ParameterBillion {
			best = m
			found = true
		}
	}
	return best, found
}

func smallestMatching(models []Model, match func(Model) bool) (Model, bool) {
	var best Model
	found := false
	for _, m := range models {
		if !match(m) {
			continue
		}
		if !found || m.ParameterBillion < best.ParameterBillion {
			best = m
			found = true
		}
	}
	return best, found
}

func smallest(models []Model) (Model, bool) {
	if len(models) == 0 {
		return Model{}, false
	}
	// models is sorted ascending by parameter count at build time.
	return models[0], true
}
