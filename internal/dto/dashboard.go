package dto

type HistogramResponse struct {
	Frequencies []int `json:"frequencies"`
}

type StateCountResponse struct {
	Pending []int `json:"pending"`
	Active  []int `json:"active"`
}

// ServiceTypeCountResponse maps a service-type label to its usage count.
type ServiceTypeCountResponse map[string]int

type MonthlyPoint struct {
	Month string `json:"month"`
	Total int    `json:"total"`
}

type StatePoint struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

type UsagePoint struct {
	Name string `json:"name"`
	Uses int    `json:"uses"`
}

// DashboardResponse carries the four chart datasets. A dataset whose fetch
// failed is empty and its error text is listed under Errors.
type DashboardResponse struct {
	TraceID             string            `json:"traceId"`
	MonthlyReservations []MonthlyPoint    `json:"monthlyReservations"`
	MonthlyPersons      []MonthlyPoint    `json:"monthlyPersons"`
	States              []StatePoint      `json:"states"`
	ServiceUsage        []UsagePoint      `json:"serviceUsage"`
	Errors              map[string]string `json:"errors,omitempty"`
}
