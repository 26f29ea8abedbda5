// Package measure holds the domain measures computed from the raw report measures.
package measure

import (
	"fmt"

	"github.com/jblievremont/sonarqube/schema"
)

// Level is the status of a quality gate condition.
type Level string

const (
	LevelOK    Level = "OK"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel matches s exactly against the known levels.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelOK, LevelWarn, LevelError:
		return Level(s), true
	default:
		return "", false
	}
}

// QualityGateStatus is the alert status attached to a measure.
type QualityGateStatus struct {
	Status Level
	Text   *string
}

// Variations holds up to five deltas against previous analyses.
// An absent slot is nil, which differs from a zero delta.
type Variations struct {
	Variation1 *float64
	Variation2 *float64
	Variation3 *float64
	Variation4 *float64
	Variation5 *float64
}

// Measure is a typed value of a metric on a component. Exactly one value field
// is meaningful, the one named by ValueType.
type Measure struct {
	ValueType schema.ValueType

	IntValue     int32
	LongValue    int64
	DoubleValue  float64
	BooleanValue bool
	StringValue  string
	LevelValue   Level

	// Data is the raw string value carried alongside numeric and boolean values.
	Data *string

	QualityGateStatus *QualityGateStatus
	Variations        *Variations

	CharacteristicID *int
	RuleID           *int
}

// HasValue reports whether the measure carries a value.
func (m Measure) HasValue() bool {
	return m.ValueType != schema.NoValue
}

func (m Measure) String() string {
	var value any
	switch m.ValueType {
	case schema.IntValue:
		value = m.IntValue
	case schema.LongValue:
		value = m.LongValue
	case schema.DoubleValue:
		value = m.DoubleValue
	case schema.BooleanValue:
		value = m.BooleanValue
	case schema.StringValue:
		value = m.StringValue
	case schema.LevelValue:
		value = m.LevelValue
	default:
		value = "-"
	}
	return fmt.Sprintf("%s(%v)", m.ValueType, value)
}

// Builder sets the optional parts of a Measure before its value is attached.
type Builder struct {
	m Measure
}

func NewBuilder() *Builder {
	return &Builder{}
}

// ForCharacteristic associates the measure with a debt characteristic.
func (b *Builder) ForCharacteristic(id int) *Builder {
	b.m.CharacteristicID = &id
	return b
}

// ForRule associates the measure with a rule.
func (b *Builder) ForRule(id int) *Builder {
	b.m.RuleID = &id
	return b
}

func (b *Builder) SetQualityGateStatus(status QualityGateStatus) *Builder {
	b.m.QualityGateStatus = &status
	return b
}

func (b *Builder) SetVariations(v Variations) *Builder {
	b.m.Variations = &v
	return b
}

func (b *Builder) CreateInt(v int32, data *string) Measure {
	m := b.m
	m.ValueType, m.IntValue, m.Data = schema.IntValue, v, data
	return m
}

func (b *Builder) CreateLong(v int64, data *string) Measure {
	m := b.m
	m.ValueType, m.LongValue, m.Data = schema.LongValue, v, data
	return m
}

func (b *Builder) CreateDouble(v float64, data *string) Measure {
	m := b.m
	m.ValueType, m.DoubleValue, m.Data = schema.DoubleValue, v, data
	return m
}

func (b *Builder) CreateBoolean(v bool, data *string) Measure {
	m := b.m
	m.ValueType, m.BooleanValue, m.Data = schema.BooleanValue, v, data
	return m
}

func (b *Builder) CreateString(v string) Measure {
	m := b.m
	m.ValueType, m.StringValue = schema.StringValue, v
	return m
}

func (b *Builder) CreateLevel(v Level) Measure {
	m := b.m
	m.ValueType, m.LevelValue = schema.LevelValue, v
	return m
}

func (b *Builder) CreateNoValue() Measure {
	m := b.m
	m.ValueType = schema.NoValue
	return m
}
