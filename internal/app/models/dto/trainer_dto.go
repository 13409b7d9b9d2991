package dto

// UpdateProfileRequest updates the trainer profile; nil fields are left unchanged
type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,min=3,max=120"`
	Phone         *string `json:"phone,omitempty"`
	CREF          *string `json:"cref,omitempty"`
	CPF           *string `json:"cpf,omitempty" binding:"omitempty,taxid" example:"529.982.247-25"`
	Address       *string `json:"address,omitempty"`
	AddressNumber *string `json:"addressNumber,omitempty"`
	Complement    *string `json:"complement,omitempty"`
	Province      *string `json:"province,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty" binding:"omitempty,len=2"`
}

// ChangePasswordRequest replaces the trainer password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
