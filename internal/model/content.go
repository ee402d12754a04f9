package model

import "time"

type ContentBlock struct {
	Page      string    `json:"page"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
