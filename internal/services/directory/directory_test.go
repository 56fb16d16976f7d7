package directory

import "testing"

func TestDirectoryDedupesAndSkipsZero(t *testing.T) {
	dir := New([]int64{10, 20, 10, 0, 30})

	if dir.Size() != 3 {
		t.Fatalf("unexpected size: %d", dir.Size())
	}
	if !dir.IsReviewer(10) || !dir.IsReviewer(20) || !dir.IsReviewer(30) {
		t.Fatalf("configured reviewers must be members")
	}
	if dir.IsReviewer(0) || dir.IsReviewer(99) {
		t.Fatalf("outsiders must not be members")
	}
}

func TestReviewersReturnsACopy(t *testing.T) {
	dir := New([]int64{10, 20})

	got := dir.Reviewers()
	got[0] = 999

	if dir.IsReviewer(999) {
		t.Fatalf("mutating the returned slice must not affect the directory")
	}
	if len(dir.Reviewers()) != 2 {
		t.Fatalf("unexpected reviewer count")
	}
}

func TestEmptyDirectory(t *testing.T) {
	dir := New(nil)
	if dir.Size() != 0 {
		t.Fatalf("unexpected size: %d", dir.Size())
	}
	if got := dir.Reviewers(); len(got) != 0 {
		t.Fatalf("expected empty reviewer list, got %v", got)
	}
}
