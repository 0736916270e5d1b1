package entity

import "time"

type Comment struct {
	Base

	UserID      string `gorm:"index;size:64"`
	UserName    string
	UserAvatar  string
	MaskedPhone string
	Text        string `gorm:"type:text"`
	Images      Array[string]
}

type ChatSession struct {
	UserID string `gorm:"primaryKey;size:64"`
	User   User   `gorm:"foreignKey:UserID"`

	LastMessageAt    time.Time `gorm:"index"`
	UserUnreadCount  int
	AdminUnreadCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminSenderID is the sender id of messages written by the support team.
const AdminSenderID = "admin"

type ChatMessage struct {
	SnowFlakeBase

	SessionUserID string `gorm:"index;size:64"`
	SenderID      string `gorm:"size:64"`
	Text          string `gorm:"type:text"`
	ImageURL      string
}
