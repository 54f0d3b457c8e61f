package workbench

// Signals represents the editor signals sent from the frontend.
type Signals struct {
	SQL      string `json:"sql"`
	SelStart int    `json:"selStart"`
	SelEnd   int    `json:"selEnd"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
}
