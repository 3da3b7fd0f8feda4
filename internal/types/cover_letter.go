package types

// CoverLetter is the generated cover letter for a job application
type CoverLetter struct {
	CompanyName   string `json:"company_name" yaml:"company_name"`
	TeamName      string `json:"team_name" yaml:"team_name"`
	PositionTitle string `json:"position_title" yaml:"position_title"`
	Salutation    string `json:"salutation" yaml:"salutation"`
	Body          string `json:"body" yaml:"body"`
	Closing       string `json:"closing" yaml:"closing"`
}
