package bodytype

import "strings"

// Recommendations are garment-attribute tags suited to, or best avoided for, a body type.
type Recommendations struct {
	Tops    []string `json:"tops"`
	Bottoms []string `json:"bottoms"`
	Avoid   []string `json:"avoid"`
}

var recommendationTable = map[Type]Recommendations{
	InvertedTriangle: {
		Tops:    []string{"fitted", "v-neck", "scoop_neck"},
		Bottoms: []string{"wide_leg", "flare", "bootcut"},
		Avoid:   []string{"shoulder_pads", "horizontal_stripes_top"},
	},
	Pear: {
		Tops:    []string{"boat_neck", "off_shoulder", "embellished"},
		Bottoms: []string{"straight_leg", "dark_colors", "high_waisted"},
		Avoid:   []string{"tight_tops", "wide_hips_emphasis"},
	},
	Hourglass: {
		Tops:    []string{"fitted", "wrap_style", "belted"},
		Bottoms: []string{"high_waisted", "fitted", "pencil_skirts"},
		Avoid:   []string{"baggy_clothes", "shapeless_silhouettes"},
	},
	Rectangle: {
		Tops:    []string{"peplum", "ruffles", "layered"},
		Bottoms: []string{"wide_leg", "flare", "printed"},
		Avoid:   []string{"straight_lines", "boxy_cuts"},
	},
	Oval: {
		Tops:    []string{"empire_waist", "v_neck", "flowing"},
		Bottoms: []string{"straight_leg", "bootcut", "dark_colors"},
		Avoid:   []string{"tight_fitting", "horizontal_stripes"},
	},
}

var fallbackRecommendations = Recommendations{
	Tops:    []string{"classic_fit"},
	Bottoms: []string{"regular_fit"},
	Avoid:   []string{},
}

var adviceTable = map[Type][]string{
	Pear:             {"Emphasize upper body", "Choose fitted tops", "Avoid tight bottoms"},
	InvertedTriangle: {"Balance with wider bottoms", "Avoid shoulder emphasis"},
	Hourglass:        {"Emphasize waist", "Choose fitted silhouettes"},
	Rectangle:        {"Create curves", "Add volume and texture"},
	Oval:             {"Choose empire waists", "Avoid tight fitting clothes"},
}

// Recommend returns a copy of the table entry for t, or the classic-fit fallback.
func Recommend(t Type) Recommendations {
	r, ok := recommendationTable[t]
	if !ok {
		r = fallbackRecommendations
	}
	return Recommendations{
		Tops:    append([]string{}, r.Tops...),
		Bottoms: append([]string{}, r.Bottoms...),
		Avoid:   append([]string{}, r.Avoid...),
	}
}

// Advice returns short styling advice for t.
func Advice(t Type) []string {
	if a, ok := adviceTable[t]; ok {
		return append([]string{}, a...)
	}
	return []string{"Choose classic fit"}
}

// Recommends reports whether garmentType is exactly one of the recommended tops or bottoms.
func (r Recommendations) Recommends(garmentType string) bool {
	for _, list := range [][]string{r.Tops, r.Bottoms} {
		for _, tag := range list {
			if tag == garmentType {
				return true
			}
		}
	}
	return false
}

// Discourages reports whether any avoid tag occurs inside garmentType.
func (r Recommendations) Discourages(garmentType string) bool {
	for _, tag := range r.Avoid {
		if strings.Contains(garmentType, tag) {
			return true
		}
	}
	return false
}
