package entity

type SelectBy string

const (
	SelectByText  SelectBy = "text"
	SelectByIndex SelectBy = "index"
	SelectByValue SelectBy = "value"
)
