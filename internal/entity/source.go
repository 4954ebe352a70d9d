package entity

import (
	"time"
)

// CommunityPost is a staging row of labeled message-board posts, stored as
// the scraper emitted it so parsing rules stay in one place.
type CommunityPost struct {
	ID             uint      `gorm:"primaryKey"`
	PostedAt       string    `gorm:"not null"`
	StockCode      string    `gorm:"not null"`
	StockName      string    `gorm:"not null"`
	MarketType     string    `gorm:"not null"`
	SentimentLabel string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (CommunityPost) TableName() string {
	return "community_posts"
}

// StockPriceTick is a staging row of raw price ticks.
type StockPriceTick struct {
	ID        uint   `gorm:"primaryKey"`
	TradedAt  string `gorm:"not null"`
	StockCode string `gorm:"not null"`
	Open      string
	High      string
	Low       string
	Close     string `gorm:"not null"`
	Volume    string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (StockPriceTick) TableName() string {
	return "stock_price_ticks"
}
