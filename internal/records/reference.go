package records

// RefItem is one entry of a static reference enumeration.
type RefItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Static reference data served to the UI. These are enumerations of the
// institution, not datastore-derived.
var (
	documentTypes = []RefItem{
		{Code: "CC", Name: "Cédula de Ciudadanía"},
		{Code: "TI", Name: "Tarjeta de Identidad"},
		{Code: "CE", Name: "Cédula de Extranjería"},
		{Code: "PA", Name: "Pasaporte"},
	}

	faculties = []RefItem{
		{Code: "ING", Name: "Ingeniería"},
		{Code: "SAL", Name: "Ciencias de la Salud"},
		{Code: "ART", Name: "Artes y Humanidades"},
		{Code: "EDU", Name: "Educación"},
	}
)

// DocumentTypes returns the valid identity document codes.
func DocumentTypes() []RefItem {
	return documentTypes
}

// Faculties returns the valid faculty codes.
func Faculties() []RefItem {
	return faculties
}
