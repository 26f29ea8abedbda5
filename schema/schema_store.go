package schema

// FileSourceRecord represents a row from the file_sources table.
// BinaryData is left nil when only the hashes were selected.
type FileSourceRecord struct {
	ID          int64
	ProjectUUID string
	FileUUID    string
	DataType    DataType
	BinaryData  []byte
	LineHashes  string
	DataHash    string
	SrcHash     string
	CreatedAt   int64 // epoch milliseconds
	UpdatedAt   int64 // epoch milliseconds
}

// CharacteristicRow represents a row from the characteristics table.
// ParentID is nil for root characteristics.
type CharacteristicRow struct {
	ID       int
	Key      string
	Name     string
	ParentID *int
	Enabled  bool
}

// RuleKey identifies a rule inside its repository, written "repository:rule".
type RuleKey struct {
	Repository string
	Rule       string
}

// String returns the "repository:rule" form of the key.
func (k RuleKey) String() string {
	return k.Repository + ":" + k.Rule
}

// RuleRow represents a row from the rules table.
type RuleRow struct {
	ID  int
	Key RuleKey
}

// QualityGate represents a row from the quality_gates table.
type QualityGate struct {
	ID   int64
	Name string
}

// Metric represents a row from the metrics table.
type Metric struct {
	ID        int
	Key       string
	ValueType ValueType
	Enabled   bool
}
