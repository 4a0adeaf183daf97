// Package ddb loads an object source from a DynamoDB table.
//
// Table schema:
//   - Partition key: id (number) - the internal object identifier
//   - labels (string set, optional) - labels the neighbor file may use
//   - external_id (string, optional) - distinguished external id label
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name neargo-objects \
//	  --attribute-definitions AttributeName=id,AttributeType=N \
//	  --key-schema AttributeName=id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package ddb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
)

// Client is the interface for DynamoDB operations.
type Client interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// FetchSource scans tableName once and materializes every object as an
// in-memory source. The scan is eager: label-index construction needs a
// complete pass before any neighbor-file line can resolve, so there is
// nothing to gain from streaming here.
func FetchSource(ctx context.Context, client Client, tableName string) (labelindex.SliceSource, error) {
	var src labelindex.SliceSource

	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ddb source: scanning %s: %w", tableName, err)
		}
		for _, item := range page.Items {
			obj, err := decodeItem(item)
			if err != nil {
				return nil, fmt.Errorf("ddb source: %w", err)
			}
			src = append(src, obj)
		}
	}

	return src, nil
}

func decodeItem(item map[string]types.AttributeValue) (model.Object, error) {
	var obj model.Object

	idAttr, ok := item["id"].(*types.AttributeValueMemberN)
	if !ok {
		return obj, fmt.Errorf("item has no numeric id attribute")
	}
	id, err := strconv.ParseUint(idAttr.Value, 10, 64)
	if err != nil {
		return obj, fmt.Errorf("parsing id %q: %w", idAttr.Value, err)
	}
	obj.ID = model.ObjectID(id)

	switch lbls := item["labels"].(type) {
	case *types.AttributeValueMemberSS:
		obj.Labels = append(obj.Labels, lbls.Value...)
	case *types.AttributeValueMemberL:
		for _, v := range lbls.Value {
			s, ok := v.(*types.AttributeValueMemberS)
			if !ok {
				return obj, fmt.Errorf("object %d: labels list contains a non-string entry", id)
			}
			obj.Labels = append(obj.Labels, s.Value)
		}
	case nil:
		// Label-less objects are fine; they can simply never be referenced.
	default:
		return obj, fmt.Errorf("object %d: unsupported labels attribute type %T", id, lbls)
	}

	if eid, ok := item["external_id"].(*types.AttributeValueMemberS); ok {
		obj.ExternalID = eid.Value
	}

	return obj, nil
}
