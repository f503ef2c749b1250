package posmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

// Store is a Loyverse store.
type Store struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID  string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	Name        string             `json:"name" bson:"name" index:"text"`
	Address     string             `json:"address" bson:"address"`
	City        string             `json:"city" bson:"city"`
	State       string             `json:"state" bson:"state"`
	PostalCode  string             `json:"postal_code" bson:"postal_code"`
	Country     string             `json:"country" bson:"country"`
	Phone       string             `json:"phone" bson:"phone"`
	Description string             `json:"description" bson:"description"`
	Meta        MetaData           `json:"meta" bson:"meta"`
}
