package posmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

// Employee is a Loyverse employee. StoreIDs are soft references to Store.LoyverseID.
type Employee struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Phone      string             `json:"phone" bson:"phone"`
	Role       string             `json:"role" bson:"role"`
	StoreIDs   []string           `json:"store_ids" bson:"store_ids" index:"single:1"`
	IsOwner    bool               `json:"is_owner" bson:"is_owner"`
	Meta       MetaData           `json:"meta" bson:"meta"`
}
