package dto

type ServiceReservationDetailsDTO struct {
	OrderDate  string `json:"orderDate"`
	Count      int    `json:"count"`
	HostelName string `json:"hostelName,omitempty"`
	Place      string `json:"place,omitempty"`
	FromHostel *bool  `json:"fromHostel,omitempty"`
	PickupTime string `json:"pickupTime,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// RemoteErrorBody is what the API sends with a rejection.
type RemoteErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
