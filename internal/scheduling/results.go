package scheduling

// ShiftResult is the envelope returned by every shift-mutating operation.
// Callers branch on Success; Conflict is populated specifically when creation
// failed because the caregiver is already booked, so the UI can render that
// distinctly from a generic failure.
type ShiftResult struct {
	Success  bool      `json:"success"`
	ShiftID  string    `json:"shiftId,omitempty"`
	Error    string    `json:"error,omitempty"`
	Conflict *Conflict `json:"conflict,omitempty"`
}

// RequestResult is the envelope for shift request creation.
type RequestResult struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ApprovalResult is the envelope for request review operations. On approval
// CreatedShiftIDs lists the materialized shifts in creation order; a partial
// batch failure still reports the succeeded subset.
type ApprovalResult struct {
	Success         bool     `json:"success"`
	CreatedShiftIDs []string `json:"createdShiftIds,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SwapResult is the envelope for swap request operations.
type SwapResult struct {
	Success bool   `json:"success"`
	SwapID  string `json:"swapId,omitempty"`
	Error   string `json:"error,omitempty"`
}
