package entity

import "time"

type PageSnapshot struct {
	Page       string
	URL        string
	Title      string
	HTML       string
	Screenshot *Screenshot
	TakenAt    time.Time
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
