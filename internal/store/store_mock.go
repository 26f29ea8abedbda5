package store

import (
	"context"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/mock"
)

// MockDbClient is a mock implementation of DbClient for testing.
type MockDbClient struct {
	mock.Mock
}

var _ contract.DbClient = &MockDbClient{} // Compile-time check

// OpenSession implements the DbClient interface.
func (m *MockDbClient) OpenSession(ctx context.Context) (contract.DbSession, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(contract.DbSession)
	return session, args.Error(1)
}

// MockDbSession is a mock implementation of DbSession for testing.
type MockDbSession struct {
	mock.Mock
}

var _ contract.DbSession = &MockDbSession{} // Compile-time check

// SelectHashesForProject implements the DbSession interface.
func (m *MockDbSession) SelectHashesForProject(ctx context.Context, projectUUID string, dataType schema.DataType) (map[string]schema.FileSourceRecord, error) {
	args := m.Called(ctx, projectUUID, dataType)
	records, _ := args.Get(0).(map[string]schema.FileSourceRecord)
	return records, args.Error(1)
}

// SelectFileSource implements the DbSession interface.
func (m *MockDbSession) SelectFileSource(ctx context.Context, fileUUID string, dataType schema.DataType) (schema.FileSourceRecord, bool, error) {
	args := m.Called(ctx, fileUUID, dataType)
	return args.Get(0).(schema.FileSourceRecord), args.Bool(1), args.Error(2)
}

// InsertFileSource implements the DbSession interface.
func (m *MockDbSession) InsertFileSource(ctx context.Context, record *schema.FileSourceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// UpdateFileSource implements the DbSession interface.
func (m *MockDbSession) UpdateFileSource(ctx context.Context, record *schema.FileSourceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// SelectEnabledCharacteristics implements the DbSession interface.
func (m *MockDbSession) SelectEnabledCharacteristics(ctx context.Context) ([]schema.CharacteristicRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]schema.CharacteristicRow)
	return rows, args.Error(1)
}

// Commit implements the DbSession interface.
func (m *MockDbSession) Commit() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the DbSession interface.
func (m *MockDbSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockReferenceStore is a mock implementation of ReferenceStore for testing.
type MockReferenceStore struct {
	mock.Mock
}

var _ contract.ReferenceStore = &MockReferenceStore{} // Compile-time check

// SelectRuleByKey implements the ReferenceStore interface.
func (m *MockReferenceStore) SelectRuleByKey(ctx context.Context, key schema.RuleKey) (schema.RuleRow, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(schema.RuleRow), args.Bool(1), args.Error(2)
}

// SelectQualityGateByID implements the ReferenceStore interface.
func (m *MockReferenceStore) SelectQualityGateByID(ctx context.Context, id int64) (schema.QualityGate, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.QualityGate), args.Bool(1), args.Error(2)
}

// SelectEnabledMetrics implements the ReferenceStore interface.
func (m *MockReferenceStore) SelectEnabledMetrics(ctx context.Context) ([]schema.Metric, error) {
	args := m.Called(ctx)
	metrics, _ := args.Get(0).([]schema.Metric)
	return metrics, args.Error(1)
}

// SelectProperties implements the ReferenceStore interface.
func (m *MockReferenceStore) SelectProperties(ctx context.Context, projectKey string) (map[string]string, error) {
	args := m.Called(ctx, projectKey)
	props, _ := args.Get(0).(map[string]string)
	return props, args.Error(1)
}
