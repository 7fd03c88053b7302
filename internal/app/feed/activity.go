// Package feed holds the activity merge engine and the feed composer: the
// ranking and aggregation logic behind profile timelines, the personalized
// newsfeed, the location digest, trending locations and explore.
package feed

import (
	"container/heap"
	"time"

	"travelblog/internal/app/model"
)

type ActivityKind string

const (
	KindPost    ActivityKind = "post"
	KindLike    ActivityKind = "like"
	KindComment ActivityKind = "comment"
)

// ActivityRecord is the tagged union the merge engine works on: exactly
// one payload is set, matching Kind.
type ActivityRecord struct {
	Kind      ActivityKind    `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Post      *model.Post     `json:"post,omitempty"`
	Like      *model.PostLike `json:"like,omitempty"`
	Comment   *model.Comment  `json:"comment,omitempty"`
}

func (a ActivityRecord) recordID() uint {
	switch a.Kind {
	case KindPost:
		return a.Post.ID
	case KindLike:
		return a.Like.ID
	default:
		return a.Comment.ID
	}
}

func (a ActivityRecord) kindRank() int {
	switch a.Kind {
	case KindPost:
		return 0
	case KindLike:
		return 1
	default:
		return 2
	}
}

// moreRecent orders records newest first. Equal timestamps break on
// record id descending, then on kind rank, so the merged order is stable
// and independent of source arrival order.
func moreRecent(a, b ActivityRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.recordID() != b.recordID() {
		return a.recordID() > b.recordID()
	}
	return a.kindRank() < b.kindRank()
}

type sourceCursor struct {
	records []ActivityRecord
	pos     int
}

func (c *sourceCursor) head() ActivityRecord { return c.records[c.pos] }

type mergeHeap []*sourceCursor

func (h mergeHeap) Len() int           { return len(h) }
func (h mergeHeap) Less(i, j int) bool { return moreRecent(h[i].head(), h[j].head()) }
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(*sourceCursor)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// mergeDesc merges per-kind sources, each already sorted newest first,
// into one reverse-chronological sequence. It streams over the sources
// instead of concatenating and re-sorting, so memory beyond the output is
// bounded by the number of sources.
func mergeDesc(sources ...[]ActivityRecord) []ActivityRecord {
	h := make(mergeHeap, 0, len(sources))
	total := 0
	for _, s := range sources {
		if len(s) > 0 {
			h = append(h, &sourceCursor{records: s})
			total += len(s)
		}
	}
	heap.Init(&h)

	out := make([]ActivityRecord, 0, total)
	for h.Len() > 0 {
		c := h[0]
		out = append(out, c.head())
		c.pos++
		if c.pos == len(c.records) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return out
}

func postRecords(posts []model.Post) []ActivityRecord {
	records := make([]ActivityRecord, len(posts))
	for i := range posts {
		records[i] = ActivityRecord{Kind: KindPost, CreatedAt: posts[i].CreatedAt, Post: &posts[i]}
	}
	return records
}

func likeRecords(likes []model.PostLike) []ActivityRecord {
	records := make([]ActivityRecord, len(likes))
	for i := range likes {
		records[i] = ActivityRecord{Kind: KindLike, CreatedAt: likes[i].CreatedAt, Like: &likes[i]}
	}
	return records
}

func commentRecords(comments []model.Comment) []ActivityRecord {
	records := make([]ActivityRecord, len(comments))
	for i := range comments {
		records[i] = ActivityRecord{Kind: KindComment, CreatedAt: comments[i].CreatedAt, Comment: &comments[i]}
	}
	return records
}
