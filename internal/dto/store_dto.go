package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateStoreRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"required"`
}

type UpdateStoreRequest struct {
	Name    string `json:"name"    validate:"omitempty,min=2,max=100"`
	Address string `json:"address"`
}

type AddEmployeeRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	HiredAt  string `json:"hired_at"`
}

type StoreResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	OwnerID   string             `json:"owner_id"`
	Employees []EmployeeResponse `json:"employees,omitempty"`
}
