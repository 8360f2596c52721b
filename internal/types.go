package internal

type ResultType string

const (
	ResultTime     ResultType = "time"
	ResultScore    ResultType = "score"
	ResultHeight   ResultType = "height"
	ResultDistance ResultType = "distance"
	ResultWeight   ResultType = "weight"
)

// RawRow is one row of the templates sheet, decoded by header name.
type RawRow struct {
	RowNumber     int
	Sport         string
	Gender        string
	EventCategory string
	EventName     string
	EventType     string
	Template      string
	Fields        string
	SampleData    string
}

type ResultTypeEntry struct {
	Sport      string     `json:"sport" yaml:"sport"`
	Event      string     `json:"event,omitempty" yaml:"event,omitempty"`
	ResultType ResultType `json:"result_type" yaml:"result_type"`
}

type MappingKind string

const (
	MappingSport MappingKind = "sport"
	MappingRound MappingKind = "round"
)

// MappingEntry is one row of the optional mappings sheet.
type MappingEntry struct {
	Kind      MappingKind
	Raw       string
	Canonical string
}

type TemplateRecord struct {
	ID                  string     `json:"id"`
	Sport               string     `json:"sport"`
	SportNormalized     string     `json:"sport_normalized"`
	EventCategory       string     `json:"event_category"`
	Gender              string     `json:"gender"`
	EventName           string     `json:"event_name"`
	EventType           string     `json:"event_type"`
	EventTypeNormalized string     `json:"event_type_normalized"`
	Template            string     `json:"template"`
	Fields              []string   `json:"fields"`
	SampleData          string     `json:"sample_data"`
	ResultType          ResultType `json:"result_type"`
	IsTeam              bool       `json:"is_team"`
	CompetitionFlow     []string   `json:"competition_flow"`
}

type Metadata struct {
	TotalTemplates int                `json:"total_templates"`
	TotalSports    int                `json:"total_sports"`
	TeamTemplates  int                `json:"team_templates"`
	ResultTypes    map[ResultType]int `json:"result_types"`
	SourceFile     string             `json:"source_file,omitempty"`
	GeneratedAt    string             `json:"generated_at"`
}

type OutputDocument struct {
	Templates        []TemplateRecord    `json:"templates"`
	SportsList       []string            `json:"sports_list"`
	EventsBySport    map[string][]string `json:"events_by_sport"`
	SportMappings    map[string]string   `json:"sport_mappings"`
	RoundMappings    map[string]string   `json:"round_mappings"`
	CompetitionFlows map[string][]string `json:"competition_flows"`
	Metadata         Metadata            `json:"metadata"`
}

type RunRow struct {
	ID             string
	SourceFile     string
	GeneratedAt    string
	TotalTemplates int
	TotalSports    int
	TimingsJSON    string
	CreatedAt      string
}
