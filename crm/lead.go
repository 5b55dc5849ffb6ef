package crm

// Pipeline stages, in board order. Grouping always materializes all four
// buckets so an empty stage renders as an empty column, not a missing one.
const (
	StageNew       = "new"
	StageContacted = "contacted"
	StageQualified = "qualified"
	StageClosed    = "closed"
)

var Stages = []string{StageNew, StageContacted, StageQualified, StageClosed}

type Lead struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Stage   string `json:"stage"`
	Source  string `json:"source"`
	Score   int    `json:"score"`
}

// searchableFields are the texts DeriveView matches the search term against.
func (l Lead) searchableFields() [3]string {
	return [3]string{l.Name, l.Email, l.Company}
}
