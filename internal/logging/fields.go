package logging

// Field name constants for structured logging.
const (
	FieldError    = "error"
	FieldStep     = "step"
	FieldDuration = "duration"

	FieldProject   = "project"
	FieldComponent = "component"
	FieldRef       = "ref"
	FieldFile      = "file"
	FieldFiles     = "files"
	FieldOutcome   = "outcome"
	FieldLines     = "lines"

	FieldBackend     = "backend"
	FieldReportDir   = "report_dir"
	FieldPath        = "path"
	FieldQualityGate = "quality_gate"
	FieldMeasures    = "measures"
	FieldGroups      = "groups"
)
