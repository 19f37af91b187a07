package dto

// Request payloads use the same camelCase field names as the
// persisted document, so the web client speaks one dialect end to end.

// LoginRequest represents a session login
type LoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
	Mode  string `json:"mode" binding:"omitempty,oneof=rider passenger"`
}

// SetModeRequest switches the active mode of the logged-in user
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=rider passenger"`
}

// CreateRideRequest represents the post-a-ride form
type CreateRideRequest struct {
	StartAddress      string  `json:"startAddress" binding:"required"`
	EndAddress        string  `json:"endAddress" binding:"required"`
	DepartureTime     string  `json:"departureTime" binding:"required"`
	VehicleType       string  `json:"vehicleType" binding:"required,oneof=Bike Car SUV"`
	AvailableSeats    int     `json:"availableSeats" binding:"required,min=1"`
	PricePerPassenger float64 `json:"pricePerPassenger" binding:"required,gt=0"`
}

// AddEmergencyVehicleRequest registers an emergency vehicle
type AddEmergencyVehicleRequest struct {
	Type           string  `json:"type" binding:"required,oneof=ambulance fire police"`
	CurrentAddress string  `json:"currentAddress" binding:"required"`
	CurrentLat     float64 `json:"currentLat"`
	CurrentLng     float64 `json:"currentLng"`
	DestAddress    string  `json:"destAddress" binding:"required"`
	DestLat        float64 `json:"destLat"`
	DestLng        float64 `json:"destLng"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse wraps a mutation result with a toast-friendly message
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
