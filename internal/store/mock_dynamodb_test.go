package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a small in-memory stand-in for a single DynamoDB table. It
// understands the two condition expressions the collection issues.
type simpleMock struct {
	mu       sync.Mutex
	keyAttr  string
	table    map[string]map[string]types.AttributeValue
	pageSize int
	err      error

	putCalls    int
	deleteCalls int
	scanCalls   int
}

func newSimpleMock(keyAttr string) *simpleMock {
	return &simpleMock{
		keyAttr:  keyAttr,
		table:    map[string]map[string]types.AttributeValue{},
		pageSize: 2,
	}
}

func (m *simpleMock) keyOf(item map[string]types.AttributeValue) (string, error) {
	attr, ok := item[m.keyAttr].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return attr.Value, nil
}

func (m *simpleMock) check(cond *string, exists bool) error {
	if cond == nil {
		return nil
	}
	switch *cond {
	case "attribute_not_exists(#k)":
		if exists {
			return &types.ConditionalCheckFailedException{}
		}
	case "attribute_exists(#k)":
		if !exists {
			return &types.ConditionalCheckFailedException{}
		}
	default:
		return errors.New("unsupported condition " + *cond)
	}
	return nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.err != nil {
		return nil, m.err
	}
	k, err := m.keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	_, exists := m.table[k]
	if err := m.check(params.ConditionExpression, exists); err != nil {
		return nil, err
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	k, err := m.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: m.table[k]}, nil
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.err != nil {
		return nil, m.err
	}
	k, err := m.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	_, exists := m.table[k]
	if err := m.check(params.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

// Scan pages through the table in key order, pageSize items at a time.
func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++
	if m.err != nil {
		return nil, m.err
	}

	keys := make([]string, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		after, err := m.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, after) + 1
	}

	out := &dyn.ScanOutput{}
	end := min(start+m.pageSize, len(keys))
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, m.table[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			m.keyAttr: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}
