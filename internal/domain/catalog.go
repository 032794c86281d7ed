package domain

type CatalogService struct {
	ID   string
	Name string
}

// MonthLabels index 0 is January.
var MonthLabels = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}
