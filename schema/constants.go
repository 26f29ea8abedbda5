package schema

// Custom string types for type safety.
type (
	// ComponentType represents the kind of node in the component tree.
	ComponentType string

	// DataType represents the kind of payload stored in a file source row.
	DataType string

	// ValueType represents the declared value type of a metric.
	ValueType string

	// HighlightingType represents a syntax highlighting category.
	HighlightingType string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// Outcome represents what happened to one persisted entity.
	Outcome string

	// OutputMode represents the format of command output.
	OutputMode string
)

// All component types supported.
const (
	ProjectType   ComponentType = "PROJECT"
	ModuleType    ComponentType = "MODULE"
	DirectoryType ComponentType = "DIRECTORY"
	FileType      ComponentType = "FILE"
)

// All file source data types supported.
const (
	SourceData DataType = "SOURCE"
	TestData   DataType = "TEST"
)

// All metric value types supported.
const (
	IntValue     ValueType = "INT"
	LongValue    ValueType = "LONG"
	DoubleValue  ValueType = "DOUBLE"
	BooleanValue ValueType = "BOOLEAN"
	StringValue  ValueType = "STRING"
	LevelValue   ValueType = "LEVEL"
	NoValue      ValueType = "NO_VALUE"
)

// All highlighting types supported.
const (
	AnnotationHighlighting          HighlightingType = "ANNOTATION"
	ConstantHighlighting            HighlightingType = "CONSTANT"
	CommentHighlighting             HighlightingType = "COMMENT"
	CppDocHighlighting              HighlightingType = "CPP_DOC"
	StructuredCommentHighlighting   HighlightingType = "STRUCTURED_COMMENT"
	KeywordHighlighting             HighlightingType = "KEYWORD"
	StringHighlighting              HighlightingType = "HIGHLIGHTING_STRING"
	KeywordLightHighlighting        HighlightingType = "KEYWORD_LIGHT"
	PreprocessDirectiveHighlighting HighlightingType = "PREPROCESS_DIRECTIVE"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All persistence outcomes.
const (
	InsertedOutcome  Outcome = "inserted"
	UpdatedOutcome   Outcome = "updated"
	UnchangedOutcome Outcome = "unchanged"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidComponentTypes lists all valid component types.
var ValidComponentTypes = map[ComponentType]struct{}{
	ProjectType:   {},
	ModuleType:    {},
	DirectoryType: {},
	FileType:      {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllOutcomes returns the persistence outcomes in display order.
var AllOutcomes = []Outcome{InsertedOutcome, UpdatedOutcome, UnchangedOutcome}

// QualityGateProperty is the project setting holding the quality gate id.
const QualityGateProperty = "sonar.qualitygate"
