package soilanalyses

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFiltersExcludeDeleted(t *testing.T) {
	tests := []struct {
		name string
		got  bson.M
		want bson.M
	}{
		{
			name: "by id",
			got:  liveByID("a-1"),
			want: bson.M{"_id": "a-1", "deletedAt": bson.M{"$exists": false}},
		},
		{
			name: "by owner",
			got:  liveByOwner("google:1"),
			want: bson.M{"userId": "google:1", "deletedAt": bson.M{"$exists": false}},
		},
		{
			name: "by id at version",
			got:  liveAtVersion("a-1", 3),
			want: bson.M{"_id": "a-1", "deletedAt": bson.M{"$exists": false}, "version": int64(3)},
		},
		{
			name: "unversioned document",
			got:  liveAtVersion("a-1", 0),
			want: bson.M{"_id": "a-1", "deletedAt": bson.M{"$exists": false}, "version": bson.M{"$in": bson.A{int64(0), nil}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalysisBSONUsesDocumentKeys(t *testing.T) {
	raw, err := bson.Marshal(Analysis{ID: "a-1", UserID: "google:1", Status: StatusCompleted, Version: 2})
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if doc["_id"] != "a-1" || doc["userId"] != "google:1" || doc["version"] != int64(2) {
		t.Fatalf("unexpected document keys: %v", doc)
	}
	if _, ok := doc["deletedAt"]; ok {
		t.Fatalf("live analysis must not carry deletedAt")
	}
}
