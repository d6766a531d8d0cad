package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vibin_discovery/models"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// StringAttr wraps a string as a DynamoDB attribute value
func StringAttr(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// UserPK is the partition key used for per-user rows in the interactions table
func UserPK(userID string) string {
	return models.UserKeyPrefix + userID
}

// InteractionSK is the sort key of the interaction sender -> receiver
func InteractionSK(receiverID string) string {
	return models.InteractionKeyPrefix + receiverID
}

// SeenSK is the sort key of a seen marker
func SeenSK(seenID string) string {
	return models.SeenKeyPrefix + seenID
}

// CompositeKey builds a PK/SK key map
func CompositeKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": StringAttr(pk),
		"SK": StringAttr(sk),
	}
}
