package utility

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID parses a hex id, returning NilObjectID when it is malformed.
func String2ObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}
