package tryon

// UnknownGarmentType is used when the garment analysis has no classified type.
const UnknownGarmentType = "unknown"

// ScaleFactors stretch a garment along each model axis.
type ScaleFactors struct {
	X float64 `json:"scale_x"`
	Y float64 `json:"scale_y"`
	Z float64 `json:"scale_z"`
}

// Garment is the analysed garment record consumed by the compositor. Only Type and
// ScaleOverride affect the composition; Material and DominantColor pass through.
type Garment struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Material      string        `json:"material"`
	DominantColor string        `json:"dominant_color"`
	ScaleOverride *ScaleFactors `json:"scale_override,omitempty"`
}

// DefaultGarment is the record used when no analysis exists for id.
func DefaultGarment(id string) Garment {
	return Garment{
		ID:            id,
		Type:          UnknownGarmentType,
		Material:      "cotton",
		DominantColor: "unknown",
	}
}

// ClassifiedType returns the garment type, or "unknown" when blank.
func (g Garment) ClassifiedType() string {
	if g.Type == "" {
		return UnknownGarmentType
	}
	return g.Type
}
