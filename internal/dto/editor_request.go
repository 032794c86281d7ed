package dto

// EditorRequest carries the whole roster and service list; omitting either
// field is an error rather than a request to clear it.
type EditorRequest struct {
	Names    []string               `json:"names" validate:"required,min=1"`
	Services []ServiceAssignmentDTO `json:"services" validate:"required"`
}

type SelectListRequest struct {
	List string `json:"list" validate:"required,oneof=pending confirmed"`
}
