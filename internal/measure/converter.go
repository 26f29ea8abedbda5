package measure

import (
	"context"
	"errors"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/rule"
	"github.com/jblievremont/sonarqube/schema"
)

var (
	// ErrBothCharacteristicAndRule is returned for a raw measure bound to a
	// characteristic and a rule at the same time.
	ErrBothCharacteristicAndRule = errors.New("measure with both characteristic id and rule key is not supported")
	// ErrUnsupportedValueType is returned for a metric whose value type is unknown.
	ErrUnsupportedValueType = errors.New("unsupported measure value type")
)

// BatchMeasureConverter turns raw report measures into domain measures.
type BatchMeasureConverter struct {
	rules contract.RuleCache
}

func NewBatchMeasureConverter(rules contract.RuleCache) *BatchMeasureConverter {
	return &BatchMeasureConverter{rules: rules}
}

// ToMeasure converts raw according to the value type of metric. It reports false
// only when raw is nil. A raw measure lacking the value expected by the metric
// becomes a NoValue measure.
func (c *BatchMeasureConverter) ToMeasure(ctx context.Context, raw *schema.RawMeasure, metric schema.Metric) (Measure, bool, error) {
	if raw == nil {
		return Measure{}, false, nil
	}
	builder, err := c.newBuilder(ctx, raw)
	if err != nil {
		return Measure{}, false, err
	}

	switch metric.ValueType {
	case schema.IntValue:
		return toIntMeasure(builder, raw), true, nil
	case schema.LongValue:
		return toLongMeasure(builder, raw), true, nil
	case schema.DoubleValue:
		return toDoubleMeasure(builder, raw), true, nil
	case schema.BooleanValue:
		return toBooleanMeasure(builder, raw), true, nil
	case schema.StringValue:
		return toStringMeasure(builder, raw), true, nil
	case schema.LevelValue:
		return toLevelMeasure(builder, raw), true, nil
	case schema.NoValue:
		return toNoValueMeasure(builder, raw), true, nil
	default:
		return Measure{}, false, fmt.Errorf("%w: %q of metric %s", ErrUnsupportedValueType, metric.ValueType, metric.Key)
	}
}

func (c *BatchMeasureConverter) newBuilder(ctx context.Context, raw *schema.RawMeasure) (*Builder, error) {
	builder := NewBuilder()
	switch {
	case raw.CharacteristicID != nil && raw.RuleKey != nil:
		return nil, ErrBothCharacteristicAndRule
	case raw.CharacteristicID != nil:
		return builder.ForCharacteristic(*raw.CharacteristicID), nil
	case raw.RuleKey != nil:
		key, err := rule.ParseKey(*raw.RuleKey)
		if err != nil {
			return nil, err
		}
		row, err := c.rules.GetByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve rule %s: %w", key, err)
		}
		return builder.ForRule(row.ID), nil
	default:
		return builder, nil
	}
}

func toIntMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.IntValue == nil {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateInt(*raw.IntValue, raw.StringValue)
}

func toLongMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.LongValue == nil {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateLong(*raw.LongValue, raw.StringValue)
}

func toDoubleMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.DoubleValue == nil {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateDouble(*raw.DoubleValue, raw.StringValue)
}

func toBooleanMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.BooleanValue == nil {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateBoolean(*raw.BooleanValue, raw.StringValue)
}

func toStringMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.StringValue == nil {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateString(*raw.StringValue)
}

func toLevelMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	if raw.StringValue == nil {
		return toNoValueMeasure(b, raw)
	}
	level, ok := ParseLevel(*raw.StringValue)
	if !ok {
		return toNoValueMeasure(b, raw)
	}
	return withCommonProperties(b, raw).CreateLevel(level)
}

func toNoValueMeasure(b *Builder, raw *schema.RawMeasure) Measure {
	return withCommonProperties(b, raw).CreateNoValue()
}

// withCommonProperties attaches the alert status and variations of raw.
func withCommonProperties(b *Builder, raw *schema.RawMeasure) *Builder {
	if raw.AlertStatus != nil {
		if level, ok := ParseLevel(*raw.AlertStatus); ok {
			b.SetQualityGateStatus(QualityGateStatus{Status: level, Text: raw.AlertText})
		}
	}
	if hasAnyVariation(raw) {
		b.SetVariations(Variations{
			Variation1: raw.Variation1,
			Variation2: raw.Variation2,
			Variation3: raw.Variation3,
			Variation4: raw.Variation4,
			Variation5: raw.Variation5,
		})
	}
	return b
}

func hasAnyVariation(raw *schema.RawMeasure) bool {
	return raw.Variation1 != nil ||
		raw.Variation2 != nil ||
		raw.Variation3 != nil ||
		raw.Variation4 != nil ||
		raw.Variation5 != nil
}
