package measure

import (
	"context"
	"errors"
	"testing"

	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRuleCache struct {
	rules map[schema.RuleKey]int
}

func (c stubRuleCache) GetByKey(_ context.Context, key schema.RuleKey) (schema.RuleRow, error) {
	id, ok := c.rules[key]
	if !ok {
		return schema.RuleRow{}, errors.New("rule not found")
	}
	return schema.RuleRow{ID: id, Key: key}, nil
}

func ptr[T any](v T) *T { return &v }

var allValueTypes = []schema.ValueType{
	schema.IntValue, schema.LongValue, schema.DoubleValue, schema.BooleanValue,
	schema.StringValue, schema.LevelValue, schema.NoValue,
}

func newConverter() *BatchMeasureConverter {
	return NewBatchMeasureConverter(stubRuleCache{rules: map[schema.RuleKey]int{
		{Repository: "squid", Rule: "S1"}: 12,
	}})
}

func metricOf(vt schema.ValueType) schema.Metric {
	return schema.Metric{ID: 1, Key: "metric", ValueType: vt, Enabled: true}
}

func TestToMeasure_NilRawIsAbsent(t *testing.T) {
	for _, vt := range allValueTypes {
		m, ok, err := newConverter().ToMeasure(context.Background(), nil, metricOf(vt))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, Measure{}, m)
	}
}

func TestToMeasure_EmptyRawIsNoValue(t *testing.T) {
	for _, vt := range allValueTypes {
		t.Run(string(vt), func(t *testing.T) {
			m, ok, err := newConverter().ToMeasure(context.Background(), &schema.RawMeasure{}, metricOf(vt))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, schema.NoValue, m.ValueType)
			assert.False(t, m.HasValue())
			assert.Nil(t, m.QualityGateStatus)
			assert.Nil(t, m.Variations)
		})
	}
}

func TestToMeasure_ValueVariants(t *testing.T) {
	tests := []struct {
		name   string
		vt     schema.ValueType
		raw    schema.RawMeasure
		verify func(t *testing.T, m Measure)
	}{
		{"int", schema.IntValue, schema.RawMeasure{IntValue: ptr(int32(10)), StringValue: ptr("extra")}, func(t *testing.T, m Measure) {
			assert.Equal(t, int32(10), m.IntValue)
			assert.Equal(t, "extra", *m.Data)
		}},
		{"long", schema.LongValue, schema.RawMeasure{LongValue: ptr(int64(1) << 40)}, func(t *testing.T, m Measure) {
			assert.Equal(t, int64(1)<<40, m.LongValue)
			assert.Nil(t, m.Data)
		}},
		{"double", schema.DoubleValue, schema.RawMeasure{DoubleValue: ptr(12.5)}, func(t *testing.T, m Measure) {
			assert.InDelta(t, 12.5, m.DoubleValue, 1e-9)
		}},
		{"boolean", schema.BooleanValue, schema.RawMeasure{BooleanValue: ptr(true)}, func(t *testing.T, m Measure) {
			assert.True(t, m.BooleanValue)
		}},
		{"string", schema.StringValue, schema.RawMeasure{StringValue: ptr("java=120;go=30")}, func(t *testing.T, m Measure) {
			assert.Equal(t, "java=120;go=30", m.StringValue)
		}},
		{"level", schema.LevelValue, schema.RawMeasure{StringValue: ptr("WARN")}, func(t *testing.T, m Measure) {
			assert.Equal(t, LevelWarn, m.LevelValue)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := newConverter().ToMeasure(context.Background(), &tt.raw, metricOf(tt.vt))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.vt, m.ValueType)
			tt.verify(t, m)
		})
	}
}

func TestToMeasure_WrongPayloadFallsBackToNoValue(t *testing.T) {
	tests := []struct {
		name string
		vt   schema.ValueType
		raw  schema.RawMeasure
	}{
		{"int metric with double payload", schema.IntValue, schema.RawMeasure{DoubleValue: ptr(1.0)}},
		{"long metric with int payload", schema.LongValue, schema.RawMeasure{IntValue: ptr(int32(1))}},
		{"boolean metric with string payload", schema.BooleanValue, schema.RawMeasure{StringValue: ptr("true")}},
		{"level metric with unknown level", schema.LevelValue, schema.RawMeasure{StringValue: ptr("RED")}},
		{"level metric with lowercase level", schema.LevelValue, schema.RawMeasure{StringValue: ptr("ok")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := newConverter().ToMeasure(context.Background(), &tt.raw, metricOf(tt.vt))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, schema.NoValue, m.ValueType)
		})
	}
}

func TestToMeasure_BothCharacteristicAndRuleFails(t *testing.T) {
	for _, vt := range allValueTypes {
		raw := &schema.RawMeasure{
			IntValue:         ptr(int32(1)),
			StringValue:      ptr("OK"),
			CharacteristicID: ptr(3),
			RuleKey:          ptr("squid:S1"),
		}
		_, ok, err := newConverter().ToMeasure(context.Background(), raw, metricOf(vt))
		assert.ErrorIs(t, err, ErrBothCharacteristicAndRule, vt)
		assert.False(t, ok)
	}
}

func TestToMeasure_UnsupportedValueType(t *testing.T) {
	_, _, err := newConverter().ToMeasure(context.Background(), &schema.RawMeasure{}, metricOf("DISTRIB"))
	assert.ErrorIs(t, err, ErrUnsupportedValueType)
	assert.ErrorContains(t, err, `"DISTRIB"`)
}

func TestToMeasure_Associations(t *testing.T) {
	ctx := context.Background()

	m, _, err := newConverter().ToMeasure(ctx, &schema.RawMeasure{IntValue: ptr(int32(1)), CharacteristicID: ptr(3)}, metricOf(schema.IntValue))
	require.NoError(t, err)
	assert.Equal(t, 3, *m.CharacteristicID)
	assert.Nil(t, m.RuleID)

	m, _, err = newConverter().ToMeasure(ctx, &schema.RawMeasure{IntValue: ptr(int32(1)), RuleKey: ptr("squid:S1")}, metricOf(schema.IntValue))
	require.NoError(t, err)
	assert.Equal(t, 12, *m.RuleID)
	assert.Nil(t, m.CharacteristicID)

	_, _, err = newConverter().ToMeasure(ctx, &schema.RawMeasure{RuleKey: ptr("squid:unknown")}, metricOf(schema.IntValue))
	assert.ErrorContains(t, err, "failed to resolve rule squid:unknown")

	_, _, err = newConverter().ToMeasure(ctx, &schema.RawMeasure{RuleKey: ptr("garbage")}, metricOf(schema.IntValue))
	assert.ErrorContains(t, err, "invalid rule key")
}

func TestToMeasure_QualityGateStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       *string
		text         *string
		expectStatus *QualityGateStatus
	}{
		{"no status", nil, ptr("ignored"), nil},
		{"unparseable status", ptr("PURPLE"), ptr("ignored"), nil},
		{"status without text", ptr("ERROR"), nil, &QualityGateStatus{Status: LevelError}},
		{"status with text", ptr("OK"), ptr("all good"), &QualityGateStatus{Status: LevelOK, Text: ptr("all good")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, vt := range allValueTypes {
				raw := &schema.RawMeasure{
					IntValue:     ptr(int32(5)),
					LongValue:    ptr(int64(5)),
					DoubleValue:  ptr(5.0),
					BooleanValue: ptr(true),
					StringValue:  ptr("OK"),
					AlertStatus:  tt.status,
					AlertText:    tt.text,
				}
				m, ok, err := newConverter().ToMeasure(context.Background(), raw, metricOf(vt))
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, vt, m.ValueType, "primary value is kept")
				assert.Equal(t, tt.expectStatus, m.QualityGateStatus)
			}
		})
	}
}

func TestToMeasure_Variations(t *testing.T) {
	tests := []struct {
		name     string
		raw      schema.RawMeasure
		expected *Variations
	}{
		{"none", schema.RawMeasure{}, nil},
		{"first only", schema.RawMeasure{Variation1: ptr(1.5)}, &Variations{Variation1: ptr(1.5)}},
		{"zero is present", schema.RawMeasure{Variation3: ptr(0.0)}, &Variations{Variation3: ptr(0.0)}},
		{"second and fifth", schema.RawMeasure{Variation2: ptr(2.0), Variation5: ptr(-5.0)}, &Variations{Variation2: ptr(2.0), Variation5: ptr(-5.0)}},
		{"all", schema.RawMeasure{Variation1: ptr(1.0), Variation2: ptr(2.0), Variation3: ptr(3.0), Variation4: ptr(4.0), Variation5: ptr(5.0)},
			&Variations{Variation1: ptr(1.0), Variation2: ptr(2.0), Variation3: ptr(3.0), Variation4: ptr(4.0), Variation5: ptr(5.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, vt := range allValueTypes {
				m, _, err := newConverter().ToMeasure(context.Background(), &tt.raw, metricOf(vt))
				require.NoError(t, err)
				assert.Equal(t, tt.expected, m.Variations)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"OK", "WARN", "ERROR"} {
		level, ok := ParseLevel(s)
		assert.True(t, ok)
		assert.Equal(t, Level(s), level)
	}
	for _, s := range []string{"", "ok", "Warn", "FAILED"} {
		_, ok := ParseLevel(s)
		assert.False(t, ok, s)
	}
}
