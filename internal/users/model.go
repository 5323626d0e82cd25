package users

import "time"

// Role values mirror the farmer/expert split of the advisory platform.
const (
	RoleFarmer = "farmer"
	RoleExpert = "expert"
	RoleAdmin  = "admin"
)

type User struct {
	ID         string    `json:"id" bson:"_id"`
	Email      string    `json:"email" bson:"email"`
	FullName   string    `json:"fullName" bson:"fullName,omitempty"`
	GivenName  string    `json:"givenName" bson:"givenName,omitempty"`
	FamilyName string    `json:"familyName" bson:"familyName,omitempty"`
	PictureURL string    `json:"pictureUrl" bson:"pictureUrl,omitempty"`
	Role       string    `json:"role" bson:"role"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}
