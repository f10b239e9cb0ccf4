package core

// Counties lists the 47 Kenyan counties accepted at entry creation.
// Stored records may carry county values outside this list; they are
// tolerated on read and only rejected when a new entry is submitted.
var Counties = []string{
	"Baringo", "Bomet", "Bungoma", "Busia", "Elgeyo-Marakwet", "Embu",
	"Garissa", "Homa Bay", "Isiolo", "Kajiado", "Kakamega", "Kericho",
	"Kiambu", "Kilifi", "Kirinyaga", "Kisii", "Kisumu", "Kitui",
	"Kwale", "Laikipia", "Lamu", "Machakos", "Makueni", "Mandera",
	"Marsabit", "Meru", "Migori", "Mombasa", "Murang'a", "Nairobi",
	"Nakuru", "Nandi", "Narok", "Nyamira", "Nyandarua", "Nyeri",
	"Samburu", "Siaya", "Taita-Taveta", "Tana River", "Tharaka-Nithi",
	"Trans Nzoia", "Turkana", "Uasin Gishu", "Vihiga", "Wajir", "West Pokot",
}

var countySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Counties))
	for _, c := range Counties {
		m[c] = struct{}{}
	}
	return m
}()

// IsCounty reports whether name matches one of the 47 counties exactly.
func IsCounty(name string) bool {
	_, ok := countySet[name]
	return ok
}
