package dto

// ProgressRequest creates or updates a progress record; Date defaults to today
type ProgressRequest struct {
	Date    *Date    `json:"date,omitempty" swaggertype:"string" example:"2025-03-01"`
	Weight  *float64 `json:"weight,omitempty" binding:"omitempty,gt=0"`
	BodyFat *float64 `json:"bodyFat,omitempty" binding:"omitempty,gte=0,lte=100"`
	Chest   *float64 `json:"chest,omitempty" binding:"omitempty,gt=0"`
	Waist   *float64 `json:"waist,omitempty" binding:"omitempty,gt=0"`
	Hips    *float64 `json:"hips,omitempty" binding:"omitempty,gt=0"`
	Arm     *float64 `json:"arm,omitempty" binding:"omitempty,gt=0"`
	Thigh   *float64 `json:"thigh,omitempty" binding:"omitempty,gt=0"`
	Notes   *string  `json:"notes,omitempty"`
}
