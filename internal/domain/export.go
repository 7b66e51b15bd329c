package domain

// Table is the input of a document export: a title, an ordered list of
// column names, and one row per record keyed by column name.
//
// Column order is the rendering order. A row missing a column renders an
// empty cell; keys that are not listed in Columns are ignored.
type Table struct {
	Title    string              `json:"title"`
	Columns  []string            `json:"columns"`
	Rows     []map[string]string `json:"rows"`
	Filename string              `json:"filename,omitempty"`
}

// DefaultExportFilename is used when a Table carries no filename.
const DefaultExportFilename = "document"

// Cells returns row's values in column order.
func (t Table) Cells(row map[string]string) []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = row[col]
	}
	return out
}
