package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a person exercises are logged against.
type User struct {
	// ID is assigned by the store on creation.
	ID primitive.ObjectID `json:"_id" bson:"_id,omitempty"`

	// Username is unique across all users.
	Username string `json:"username" bson:"username"`
}
