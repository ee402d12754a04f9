package model

import "time"

type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Firstname string    `json:"firstname,omitempty"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Subscriber struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
