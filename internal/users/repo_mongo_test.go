package users

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertUpdateOnlySetsRoleOnInsert(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	update := upsertUpdate(User{ID: "google:1", Email: "asha@example.com"}, RoleFarmer, now)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("missing $set")
	}
	if _, ok := set["role"]; ok {
		t.Fatalf("role must not be in $set")
	}
	if set["updatedAt"] != now {
		t.Fatalf("updatedAt = %v", set["updatedAt"])
	}
	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok || onInsert["role"] != RoleFarmer || onInsert["createdAt"] != now {
		t.Fatalf("unexpected $setOnInsert: %v", update["$setOnInsert"])
	}
}
