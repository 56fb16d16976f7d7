package directory

// Directory is the fixed set of actors authorized to decide
// applications. Membership comes from configuration, not storage.
type Directory struct {
	ordered []int64
	members map[int64]struct{}
}

func New(reviewerTGIDs []int64) *Directory {
	d := &Directory{
		ordered: make([]int64, 0, len(reviewerTGIDs)),
		members: make(map[int64]struct{}, len(reviewerTGIDs)),
	}
	for _, id := range reviewerTGIDs {
		if id == 0 {
			continue
		}
		if _, seen := d.members[id]; seen {
			continue
		}
		d.members[id] = struct{}{}
		d.ordered = append(d.ordered, id)
	}
	return d
}

func (d *Directory) IsReviewer(tgID int64) bool {
	_, ok := d.members[tgID]
	return ok
}

func (d *Directory) Reviewers() []int64 {
	out := make([]int64, len(d.ordered))
	copy(out, d.ordered)
	return out
}

func (d *Directory) Size() int {
	return len(d.ordered)
}
