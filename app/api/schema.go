package api

type fieldSchema struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ReadOnly   bool   `json:"read_only,omitempty"`
	Required   bool   `json:"required,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
	HelpText   string `json:"help_text,omitempty"`
}

type resourceSchema struct {
	Path       string        `json:"path"`
	Search     []string      `json:"search,omitempty"`
	Deprecated bool          `json:"deprecated,omitempty"`
	Fields     []fieldSchema `json:"fields"`
}

var apiSchema = map[string]resourceSchema{
	"categories": {
		Path:   "/api/v1/categories",
		Search: []string{"name"},
		Fields: []fieldSchema{
			{Name: "id", Type: "integer", ReadOnly: true},
			{Name: "name", Type: "string", Required: true},
		},
	},
	"periods": {
		Path:       "/api/v1/periods",
		Deprecated: true,
		Fields: []fieldSchema{
			{Name: "id", Type: "integer", ReadOnly: true},
			{Name: "period", Type: "date", Nullable: true},
		},
	},
	"answers": {
		Path:   "/api/v1/answers",
		Search: []string{"question", "answer"},
		Fields: []fieldSchema{
			{Name: "id", Type: "integer", ReadOnly: true},
			{Name: "question", Type: "string", Required: true},
			{Name: "answer", Type: "string", Required: true},
			{Name: "note", Type: "string"},
			{Name: "url", Type: "url"},
			{Name: "tag", Type: "string"},
			{Name: "status", Type: "choice"},
			{Name: "month", Type: "integer"},
			{Name: "year", Type: "integer"},
			{Name: "category", Type: "integer", Required: true},
			{Name: "period_display", Type: "string", ReadOnly: true},
			{Name: "month_display", Type: "string", ReadOnly: true},
			{Name: "quarter", Type: "integer", ReadOnly: true},
			{Name: "quarter_display", Type: "string", ReadOnly: true},
			{Name: "status_display", Type: "string", ReadOnly: true},
			{Name: "create", Type: "datetime", ReadOnly: true},
			{Name: "update", Type: "datetime", ReadOnly: true},
			{Name: "period", Type: "integer", Nullable: true, Deprecated: true, HelpText: "DEPRECATED: Use month and year."},
			{Name: "actual", Type: "boolean", Nullable: true, Deprecated: true, HelpText: "DEPRECATED: Use status."},
		},
	},
}
