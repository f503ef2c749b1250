package posmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

type Supplier struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	Name       string             `json:"name" bson:"name" index:"text"`
	Contact    string             `json:"contact" bson:"contact"`
	Email      string             `json:"email" bson:"email"`
	Phone      string             `json:"phone" bson:"phone"`
	Address    string             `json:"address" bson:"address"`
	Meta       MetaData           `json:"meta" bson:"meta"`
}
