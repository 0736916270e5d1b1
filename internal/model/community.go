package model

type GetCommentsRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type CreateCommentRequest struct {
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type UpdateCommentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type UpdateCommentResponse struct{}

type DeleteCommentRequest struct {
	ID string `json:"id"`
}

type DeleteCommentResponse struct{}

type UploadImageRequest struct{}

type UploadImageResponse struct {
	Url string `json:"url"`
}
