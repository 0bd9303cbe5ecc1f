package catalog

import "github.com/tailored-agentic-units/rfp/rfp"

// SampleProducts returns the reference OEM product range.
func SampleProducts() []rfp.CandidateSKU {
	return []rfp.CandidateSKU{
		{ID: "OEM-XLPE-4C-70", Material: rfp.MaterialCopper, Insulation: "XLPE", Cores: 4, SizeMM2: 70, VoltageKV: 1.1, BasePrice: 800, MetalWeightKgPerKm: 280, Certifications: []string{"IS-1554", "IEC-60502"}},
		{ID: "OEM-PVC-3C-95", Material: rfp.MaterialAluminium, Insulation: "PVC", Cores: 3, SizeMM2: 95, VoltageKV: 3.3, BasePrice: 600, MetalWeightKgPerKm: 220, Certifications: []string{"IS-7098"}},
		{ID: "OEM-XLPE-4C-95", Material: rfp.MaterialCopper, Insulation: "XLPE", Cores: 4, SizeMM2: 95, VoltageKV: 1.1, BasePrice: 1000, MetalWeightKgPerKm: 380, Certifications: []string{"IS-1554", "IEC-60502"}},
		{ID: "OEM-PVC-4C-50", Material: rfp.MaterialCopper, Insulation: "PVC", Cores: 4, SizeMM2: 50, VoltageKV: 0.66, BasePrice: 500, MetalWeightKgPerKm: 200, Certifications: []string{"IS-7098"}},
		{ID: "OEM-XLPE-3C-70", Material: rfp.MaterialAluminium, Insulation: "XLPE", Cores: 3, SizeMM2: 70, VoltageKV: 3.3, BasePrice: 750, MetalWeightKgPerKm: 180, Certifications: []string{"IS-7098", "IEC-60502"}},
		{ID: "OEM-BEST-MATCH", Material: rfp.MaterialCopper, Insulation: "XLPE", Cores: 4, SizeMM2: 120, VoltageKV: 1.1, BasePrice: 1200, MetalWeightKgPerKm: 480, Certifications: []string{"IS-1554", "IEC-60502", "UL"}},
	}
}
