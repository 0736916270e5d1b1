package model

type GetChatRequest struct{}

type GetChatResponse struct {
	Session ChatSession `json:"session"`
}

type SendChatMessageRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

type SendChatMessageResponse struct {
	Message ChatMessage `json:"message"`
}

type MarkChatAsReadRequest struct{}

type MarkChatAsReadResponse struct{}

type GetChatSessionsRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetChatSessionsResponse struct {
	Sessions []ChatSession `json:"sessions"`
}

type AdminSendChatMessageRequest struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

type AdminMarkChatAsReadRequest struct {
	UserID string `json:"user_id"`
}
