package domain

import "time"

type Player struct {
	ID        int64     `json:"id"`
	Nickname  string    `json:"nickname"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
