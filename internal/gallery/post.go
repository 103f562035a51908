package gallery

import "time"

type Settings struct {
	Width         int
	Height        int
	Steps         int
	Seed          int64
	GuidanceScale float64
}

// Post is one saved image document.
type Post struct {
	ID             string `gorm:"primaryKey;size:36"`
	UserID         string `gorm:"index;size:64"`
	UserName       string `gorm:"size:200"`
	UserImage      *string
	Prompt         string
	NegativePrompt string
	ImageURL       string
	IsPublic       bool `gorm:"index"`
	Likes          int
	CreatedAt      time.Time `gorm:"index"`
	Settings       Settings  `gorm:"embedded;embeddedPrefix:settings_"`
}
