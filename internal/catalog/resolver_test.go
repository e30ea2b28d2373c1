package catalog

import "testing"

func sampleCatalog() *Catalog {
	return &Catalog{Models: []Model{
		{Name: "deepscaler:latest", Capability: CapabilityGeneral, SizeTier: SizeSmall, ParameterBillion: 1.8},
		{Name: "qwen2.5-coder:latest", Capability: CapabilityCode, SizeTier: SizeMedium, ParameterBillion: 7.6},
		{Name: "qwen3:latest", Capability: CapabilityGeneral, SizeTier: SizeMedium, ParameterBillion: 8.2},
		{Name: "gemma3:12b", Capability: CapabilityGeneral, SizeTier: SizeMedium, ParameterBillion: 12.2},
		{Name: "openthinker:32b", Capability: CapabilityGeneral, SizeTier: SizeLarge, ParameterBillion: 32.8},
	}}
}

func TestResolveCode(t *testing.T) {
	c := sampleCatalog()
	m, ok := c.Resolve(RoleCode)
	if !ok || m.Name != "qwen2.5-coder:latest" {
		t.Fatalf("Resolve(code) = %+v, ok=%v, want qwen2.5-coder:latest", m, ok)
	}
}

func TestResolveGeneral(t *testing.T) {
	c := sampleCatalog()
	m, ok := c.Resolve(RoleGeneral)
	if !ok || m.Name != "gemma3:12b" {
		t.Fatalf("Resolve(general) = %+v, ok=%v, want gemma3:12b", m, ok)
	}
}

func TestResolveSmall(t *testing.T) {
	c := sampleCatalog()
	m, ok := c.Resolve(RoleSmall)
	if !ok || m.Name != "deepscaler:latest" {
		t.Fatalf("Resolve(small) = %+v, ok=%v, want deepscaler:latest", m, ok)
	}
}

func TestResolveGeneralFallsBackAboveCap(t *testing.T) {
	c := &Catalog{Models: []Model{
		{Name: "devstral:latest", Capability: CapabilityGeneral, SizeTier: SizeLarge, ParameterBillion: 23.6},
		{Name: "openthinker:32b", Capability: CapabilityGeneral, SizeTier: SizeLarge, ParameterBillion: 32.8},
	}}
	m, ok := c.Resolve(RoleGeneral)
	if !ok || m.Name != "devstral:latest" {
		t.Fatalf("Resolve(general) = %+v, ok=%v, want devstral:latest", m, ok)
	}
}

func TestResolveOverrideUnknownModelFallsBackToRole(t *testing.T) {
	c := sampleCatalog()
	m, ok := c.ResolveOverride("nonexistent-model", RoleSmall)
	if !ok || m.Name != "deepscaler:latest" {
		t.Fatalf("ResolveOverride fallback = %+v, ok=%v, want deepscaler:latest", m, ok)
	}
}

func TestFindCaseInsensitivePrefix(t *testing.T) {
	c := sampleCatalog()
	m, ok := c.Find("Qwen2.5-Coder")
	if !ok || m.Name != "qwen2.5-coder:latest" {
		t.Fatalf("Find() = %+v, ok=%v, want qwen2.5-coder:latest", m, ok)
	}
}
