package output

// Output formats accepted by --output.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatVienna = "vienna"
)

// Formats lists every supported format in help order.
var Formats = []string{FormatText, FormatJSON, FormatJSONL, FormatVienna}

// TSVHeader is the header row of the text format.
const TSVHeader = "id\tlength\tstatus\tobjective\tdot_bracket"
