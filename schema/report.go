package schema

// Metadata describes one batch report as a whole.
type Metadata struct {
	AnalysisDate     int64  `yaml:"analysis_date"`
	ProjectKey       string `yaml:"project_key"`
	RootComponentRef int    `yaml:"root_component_ref"`
}

// ComponentMetadata is the raw description of one component in the report.
type ComponentMetadata struct {
	Ref       int           `yaml:"ref"`
	Type      ComponentType `yaml:"type"`
	Key       string        `yaml:"key"`
	UUID      string        `yaml:"uuid"`
	Lines     int           `yaml:"lines,omitempty"`
	ChildRefs []int         `yaml:"child_refs,omitempty"`
}

// TextRange locates a span of text by line and offset. Lines start at 1.
type TextRange struct {
	StartLine   int `msgpack:"start_line"`
	EndLine     int `msgpack:"end_line"`
	StartOffset int `msgpack:"start_offset"`
	EndOffset   int `msgpack:"end_offset"`
}

// Coverage is the raw coverage record of a single line.
type Coverage struct {
	Line                     int    `msgpack:"line"`
	Conditions               *int32 `msgpack:"conditions,omitempty"`
	UtHits                   *bool  `msgpack:"ut_hits,omitempty"`
	ItHits                   *bool  `msgpack:"it_hits,omitempty"`
	UtCoveredConditions      *int32 `msgpack:"ut_covered_conditions,omitempty"`
	ItCoveredConditions      *int32 `msgpack:"it_covered_conditions,omitempty"`
	OverallCoveredConditions *int32 `msgpack:"overall_covered_conditions,omitempty"`
}

// Changeset is one SCM revision referenced by lines of a file.
type Changeset struct {
	Revision *string `msgpack:"revision,omitempty"`
	Author   *string `msgpack:"author,omitempty"`
	Date     *int64  `msgpack:"date,omitempty"`
}

// Changesets holds the changesets of a file and, per line, the index of the changeset
// that last touched it.
type Changesets struct {
	Changesets           []Changeset `msgpack:"changesets"`
	ChangesetIndexByLine []int       `msgpack:"changeset_index_by_line"`
}

// SyntaxHighlighting is one highlighted range of a file.
type SyntaxHighlighting struct {
	Range TextRange        `msgpack:"range"`
	Type  HighlightingType `msgpack:"type"`
}

// Symbol is a declaration and the places that reference it.
type Symbol struct {
	Declaration TextRange   `msgpack:"declaration"`
	References  []TextRange `msgpack:"references,omitempty"`
}

// Duplicate is one copy of a duplicated block. OtherFileRef is set when the copy
// lives in another file.
type Duplicate struct {
	OtherFileRef *int     `msgpack:"other_file_ref,omitempty"`
	Range        TextRange `msgpack:"range"`
}

// Duplication is a duplicated block of a file and its copies.
type Duplication struct {
	OriginPosition TextRange   `msgpack:"origin_position"`
	Duplicates     []Duplicate `msgpack:"duplicates,omitempty"`
}

// RawMeasure is a scalar measurement as produced by the scanner. Every field other
// than MetricKey is optional.
type RawMeasure struct {
	MetricKey        string   `msgpack:"metric_key"`
	IntValue         *int32   `msgpack:"int_value,omitempty"`
	LongValue        *int64   `msgpack:"long_value,omitempty"`
	DoubleValue      *float64 `msgpack:"double_value,omitempty"`
	BooleanValue     *bool    `msgpack:"boolean_value,omitempty"`
	StringValue      *string  `msgpack:"string_value,omitempty"`
	AlertStatus      *string  `msgpack:"alert_status,omitempty"`
	AlertText        *string  `msgpack:"alert_text,omitempty"`
	Variation1       *float64 `msgpack:"variation_value_1,omitempty"`
	Variation2       *float64 `msgpack:"variation_value_2,omitempty"`
	Variation3       *float64 `msgpack:"variation_value_3,omitempty"`
	Variation4       *float64 `msgpack:"variation_value_4,omitempty"`
	Variation5       *float64 `msgpack:"variation_value_5,omitempty"`
	CharacteristicID *int     `msgpack:"characteristic_id,omitempty"`
	RuleKey          *string  `msgpack:"rule_key,omitempty"`
}
