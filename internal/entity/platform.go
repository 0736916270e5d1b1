package entity

import (
	"time"

	"github.com/wealthfund/backend/pkg/enum"
)

type ThemeColor string

var (
	ThemeGreen  = enum.New(ThemeColor("green"))
	ThemeBlue   = enum.New(ThemeColor("blue"))
	ThemePurple = enum.New(ThemeColor("purple"))
	ThemeOrange = enum.New(ThemeColor("orange"))
	ThemeRed    = enum.New(ThemeColor("red"))
	ThemeYellow = enum.New(ThemeColor("yellow"))
	ThemeTeal   = enum.New(ThemeColor("teal"))
	ThemePink   = enum.New(ThemeColor("pink"))
)

// Setting is a platform setting. Value holds the JSON encoding of the setting.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

type PaymentMethod struct {
	Base

	Name     string
	UPIID    string
	QRCode   string `gorm:"type:text"`
	IsActive bool
	Position int
}

type ActivityLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:64"`
	UserName  string
	Action    string
	CreatedAt time.Time `gorm:"index"`
}
