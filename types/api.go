package types

import "time"

type GenerateImageRequest struct {
	Prompt         string     `json:"prompt"`
	NegativePrompt string     `json:"negativePrompt"`
	Width          *FlexInt   `json:"width"`
	Height         *FlexInt   `json:"height"`
	Steps          *FlexInt   `json:"steps"`
	Seed           *FlexInt   `json:"seed"`
	GuidanceScale  *FlexFloat `json:"guidanceScale"`

	// Server-side gallery save, mirrors the create form checkboxes.
	SaveToGallery bool   `json:"saveToGallery"`
	IsPublic      bool   `json:"isPublic"`
	ClientID      string `json:"clientId"`
}

type GenerateImageResponse struct {
	ImageUrl  string `json:"imageUrl"`
	SaveJobID string `json:"saveJobId,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	User      User      `json:"user"`
}

type User struct {
	ID       string  `json:"uid"`
	Name     string  `json:"displayName"`
	Email    string  `json:"email"`
	PhotoURL *string `json:"photoURL"`
}

type PostSettings struct {
	Width         FlexInt   `json:"width"`
	Height        FlexInt   `json:"height"`
	Steps         FlexInt   `json:"steps"`
	Seed          FlexInt   `json:"seed"`
	GuidanceScale FlexFloat `json:"guidanceScale"`
}

type CreatePostRequest struct {
	ImageUrl       string       `json:"imageUrl"`
	Prompt         string       `json:"prompt"`
	NegativePrompt string       `json:"negativePrompt"`
	IsPublic       bool         `json:"isPublic"`
	Settings       PostSettings `json:"settings"`
}

type Post struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	UserName       string       `json:"userName"`
	UserImage      *string      `json:"userImage"`
	Prompt         string       `json:"prompt"`
	NegativePrompt string       `json:"negativePrompt"`
	ImageUrl       string       `json:"imageUrl"`
	IsPublic       bool         `json:"isPublic"`
	Likes          int          `json:"likes"`
	CreatedAt      time.Time    `json:"createdAt"`
	Settings       PostSettings `json:"settings"`
}

type ListPostsResponse struct {
	Posts  []Post `json:"posts"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type ModelInfoResponse struct {
	ID           string    `json:"id"`
	PipelineTag  string    `json:"pipelineTag,omitempty"`
	Likes        int64     `json:"likes"`
	Downloads    int64     `json:"downloads"`
	LastModified time.Time `json:"lastModified,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    int   `json:"status"`
	TimeStamp int64 `json:"timestamp"`
}
