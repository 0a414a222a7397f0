package geometry

// Preset is a catalogued airfoil users can request by name.
type Preset struct {
	Name        string `json:"name"`
	Family      Family `json:"family"`
	Designation string `json:"designation"`
	Description string `json:"description"`
}

func Presets() []Preset {
	return []Preset{
		{Name: "NACA 0006", Family: FamilyNACA4, Designation: "0006", Description: "Symmetric, 6% thick (thin)"},
		{Name: "NACA 0009", Family: FamilyNACA4, Designation: "0009", Description: "Symmetric, 9% thick"},
		{Name: "NACA 0012", Family: FamilyNACA4, Designation: "0012", Description: "Symmetric, 12% thick"},
		{Name: "NACA 0015", Family: FamilyNACA4, Designation: "0015", Description: "Symmetric, 15% thick"},
		{Name: "NACA 2412", Family: FamilyNACA4, Designation: "2412", Description: "2% camber at 40% chord, 12% thick"},
		{Name: "NACA 4412", Family: FamilyNACA4, Designation: "4412", Description: "4% camber at 40% chord, 12% thick"},
		{Name: "NACA 6412", Family: FamilyNACA4, Designation: "6412", Description: "6% camber at 40% chord, 12% thick"},
		{Name: "NACA 23012", Family: FamilyNACA5, Designation: "23012", Description: "5-digit series, 12% thick"},
	}
}
