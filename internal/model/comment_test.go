package model

import (
	"sort"
	"testing"
)

func flatComment(id, articleID, parentID, rootID int64) *Comment {
	return &Comment{ID: id, ArticleID: articleID, ParentID: parentID, RootID: rootID}
}

func TestBuildCommentForest(t *testing.T) {
	// Two threads on one article:
	//   1
	//   ├── 2
	//   │   └── 4
	//   └── 3
	//   5
	rows := []*Comment{
		flatComment(1, 10, 0, 0),
		flatComment(2, 10, 1, 1),
		flatComment(3, 10, 1, 1),
		flatComment(4, 10, 2, 1),
		flatComment(5, 10, 0, 0),
	}

	forest := BuildCommentForest(rows)

	if len(forest) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(forest))
	}
	if forest[0].ID != 1 || forest[1].ID != 5 {
		t.Errorf("top-level order wrong: got %d, %d", forest[0].ID, forest[1].ID)
	}
	if len(forest[0].Replies) != 2 {
		t.Fatalf("expected 2 replies under comment 1, got %d", len(forest[0].Replies))
	}
	if forest[0].Replies[0].ID != 2 || forest[0].Replies[1].ID != 3 {
		t.Errorf("reply order wrong: got %d, %d", forest[0].Replies[0].ID, forest[0].Replies[1].ID)
	}
	if len(forest[0].Replies[0].Replies) != 1 || forest[0].Replies[0].Replies[0].ID != 4 {
		t.Errorf("nested reply 4 not under comment 2")
	}
	if got := CountNodes(forest); got != 5 {
		t.Errorf("CountNodes = %d, want 5", got)
	}
}

func TestBuildCommentForestDropsOrphans(t *testing.T) {
	rows := []*Comment{
		flatComment(1, 10, 0, 0),
		flatComment(7, 10, 99, 1), // parent 99 does not exist
	}

	forest := BuildCommentForest(rows)

	if len(forest) != 1 {
		t.Fatalf("expected 1 top-level comment, got %d", len(forest))
	}
	if got := CountNodes(forest); got != 1 {
		t.Errorf("orphaned reply should not appear in the forest, CountNodes = %d", got)
	}
}

func TestBuildCommentForestEmpty(t *testing.T) {
	if forest := BuildCommentForest(nil); len(forest) != 0 {
		t.Errorf("expected empty forest, got %d nodes", len(forest))
	}
}

func TestSubtreeIDs(t *testing.T) {
	rows := []*Comment{
		flatComment(1, 10, 0, 0),
		flatComment(2, 10, 1, 1),
		flatComment(3, 10, 2, 1),
		flatComment(4, 10, 2, 1),
		flatComment(5, 10, 1, 1),
	}

	tests := []struct {
		name string
		seed int64
		want []int64
	}{
		{"whole thread", 1, []int64{1, 2, 3, 4, 5}},
		{"mid subtree", 2, []int64{2, 3, 4}},
		{"leaf", 3, []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtreeIDs(rows, tt.seed)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestResolveAuthor(t *testing.T) {
	live := &User{ID: 7, Username: "asha", Name: "Asha R", Avatar: "live.png"}
	snapshot := &Comment{AuthorID: 7, AuthorName: "Old Name", AuthorAvatar: "old.png"}

	got := ResolveAuthor(snapshot, live)
	if got.Name != "Asha R" || got.Avatar != "live.png" || got.Initial != "A" {
		t.Errorf("live account should win: got %+v", got)
	}

	got = ResolveAuthor(snapshot, nil)
	if got.Name != "Old Name" || got.Avatar != "old.png" || got.Initial != "O" {
		t.Errorf("snapshot should back a deleted account: got %+v", got)
	}

	got = ResolveAuthor(&Comment{AuthorID: 7}, nil)
	if got.Name != UnknownUserName || got.Initial != UnknownUserInitial {
		t.Errorf("expected placeholder author, got %+v", got)
	}
}
