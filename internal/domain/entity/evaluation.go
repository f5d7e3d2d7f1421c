package entity

// Verdict is the outcome of a visual page check.
type Verdict struct {
	Pass       bool     `json:"pass"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
	Reason     string   `json:"reason"`
}

type VisualCheck struct {
	Page        string
	Expectation string
	Screenshot  *Screenshot
}
