package models

import (
	"strconv"
	"time"
)

// Square is a claimed cell. ID is the position row*10+col, stringified.
type Square struct {
	GameID    string    `gorm:"primaryKey;size:36" json:"-"`
	ID        string    `gorm:"primaryKey;size:2" json:"id"`
	OwnerID   string    `gorm:"index;not null" json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	IsPaid    bool      `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
}

// Position returns the numeric board position, or -1 when the id is malformed.
func (s Square) Position() int {
	pos, err := strconv.Atoi(s.ID)
	if err != nil || pos < 0 || pos >= GridSize*GridSize {
		return -1
	}
	return pos
}

func SquareID(position int) string {
	return strconv.Itoa(position)
}
