package dto

// SendMessageRequest is the body to post a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000" example:"Bom treino hoje!"`
}

// MarkReadResponse reports how many messages were marked read
type MarkReadResponse struct {
	Updated int64 `json:"updated" example:"3"`
}
