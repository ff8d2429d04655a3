package models

import "time"

// RoomType categorises teaching spaces.
type RoomType string

const (
	RoomTypeClassroom RoomType = "CLASSROOM"
	RoomTypeLab       RoomType = "LAB"
	RoomTypeHall      RoomType = "HALL"
)

// Room represents a teaching space. IsAvailable is a static flag independent
// of per-period booking.
type Room struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Type        RoomType  `db:"type" json:"type"`
	Capacity    int       `db:"capacity" json:"capacity"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter defines filters supported by room list endpoints.
type RoomFilter struct {
	Type      RoomType
	Available *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
