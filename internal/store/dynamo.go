package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/optbazar/storefront-api/internal/aws"
)

// DynamoCollection stores entities in a table with a single string partition
// key. T must tag its fields for attributevalue (dynamodbav).
type DynamoCollection[T Entity] struct {
	client    aws.DynamoDBAPI
	tableName string
	keyAttr   string
}

// NewDynamoCollection returns a collection over tableName whose partition key
// attribute is keyAttr.
func NewDynamoCollection[T Entity](client aws.DynamoDBAPI, tableName, keyAttr string) *DynamoCollection[T] {
	return &DynamoCollection[T]{
		client:    client,
		tableName: tableName,
		keyAttr:   keyAttr,
	}
}

func (d *DynamoCollection[T]) NewID() string {
	return uuid.NewString()
}

func (d *DynamoCollection[T]) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		d.keyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

func (d *DynamoCollection[T]) put(ctx context.Context, item T, condition string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                &d.tableName,
		Item:                     av,
		ConditionExpression:      &condition,
		ExpressionAttributeNames: map[string]string{"#k": d.keyAttr},
	})
	return err
}

func (d *DynamoCollection[T]) Insert(ctx context.Context, item T) error {
	err := d.put(ctx, item, "attribute_not_exists(#k)")
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("insert %s: %w", item.EntityID(), ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (d *DynamoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	res, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &d.tableName,
		Key:            d.key(id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return out, fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return out, ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, &out); err != nil {
		return out, fmt.Errorf("unmarshal item: %w", err)
	}
	return out, nil
}

func (d *DynamoCollection[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	p := dyn.NewScanPaginator(d.client, &dyn.ScanInput{TableName: &d.tableName})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func (d *DynamoCollection[T]) Replace(ctx context.Context, item T) error {
	err := d.put(ctx, item, "attribute_exists(#k)")
	if isConditionalCheckFailed(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (d *DynamoCollection[T]) Delete(ctx context.Context, id string) error {
	cond := "attribute_exists(#k)"
	_, err := d.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:                &d.tableName,
		Key:                      d.key(id),
		ConditionExpression:      &cond,
		ExpressionAttributeNames: map[string]string{"#k": d.keyAttr},
	})
	if isConditionalCheckFailed(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DeleteMany issues one conditional delete per id; missing ids are not counted.
func (d *DynamoCollection[T]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		err := d.Delete(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func isConditionalCheckFailed(err error) bool {
	if err == nil {
		return false
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func awsBool(b bool) *bool { return &b }
