package dto

// RegisterCitizenRequest represents the citizen signup payload.
type RegisterCitizenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
	Region   string `json:"region" binding:"required"`
}

// RegisterContractorRequest represents the contractor signup payload. The
// account lands in the approval queue and cannot take work until an officer
// approves it.
type RegisterContractorRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	CompanyName    string `json:"company_name" binding:"required"`
	LicenseNumber  string `json:"license_number" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Region         string `json:"region" binding:"required"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SubmitComplaintRequest represents a new complaint. Region is optional;
// when absent it is derived from the pincode or the citizen's home region.
type SubmitComplaintRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Region      string   `json:"region"`
	Pincode     string   `json:"pincode"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ProofImage  *string  `json:"proof_image"`
}

// AssignContractorRequest represents the officer's contractor pick.
type AssignContractorRequest struct {
	ContractorID string `json:"contractor_id" binding:"required,uuid"`
}

// CompleteWorkRequest represents the contractor's completion report. The
// image may be omitted when one was uploaded with a previous attempt.
type CompleteWorkRequest struct {
	CompletionImage string `json:"completion_image"`
}

// RejectWorkRequest represents the officer's verdict when completed work is
// sent back for rework.
type RejectWorkRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectContractorRequest represents the officer's verdict on a contractor
// application.
type RejectContractorRequest struct {
	Reason string `json:"reason" binding:"required"`
}
