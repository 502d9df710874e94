package model

// Import source formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ImportJob asks a loader worker to copy one source file into a collection.
type ImportJob struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
	Source     string `json:"source"`
	Format     string `json:"format"`
	// Drop clears the collection before inserting.
	Drop bool `json:"drop"`
}
