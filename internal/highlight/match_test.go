package highlight

import (
	"errors"
	"testing"
)

func TestAddHit(t *testing.T) {
	match := Match{QueryID: "q1", DocID: "d1"}
	match.AddHit("body", 2, 2, 10, 13)

	if match.HitCount() != 1 {
		t.Fatalf("HitCount() = %d, want 1", match.HitCount())
	}
	want := Hit{Field: "body", StartPosition: 2, EndPosition: 2, StartOffset: 10, EndOffset: 13}
	if match.Hits[0] != want {
		t.Errorf("Hits[0] = %+v, want %+v", match.Hits[0], want)
	}
}

func TestMergeMatches(t *testing.T) {
	t.Run("hit union preserves every hit from both sides", func(t *testing.T) {
		a := Match{QueryID: "q1", DocID: "d1"}
		a.AddHit("body", 1, 1, 0, 3)
		a.AddHit("body", 5, 5, 20, 23)

		b := Match{QueryID: "q1", DocID: "d1"}
		b.AddHit("title", 0, 0, 0, 4)
		b.AddHit("body", 1, 1, 0, 3) // duplicate of a's first hit, must survive

		merged := MergeMatches(a, b)
		if merged.QueryID != "q1" || merged.DocID != "d1" {
			t.Errorf("merged key = (%s, %s), want (q1, d1)", merged.QueryID, merged.DocID)
		}
		if merged.HitCount() != 4 {
			t.Fatalf("merged HitCount() = %d, want 4 (duplicates stay separate)", merged.HitCount())
		}
		for _, h := range append(a.Hits, b.Hits...) {
			found := 0
			for _, mh := range merged.Hits {
				if mh == h {
					found++
				}
			}
			if found == 0 {
				t.Errorf("hit %+v missing from merged match", h)
			}
		}
	})

	t.Run("merge does not mutate its inputs", func(t *testing.T) {
		a := Match{QueryID: "q1", DocID: "d1"}
		a.AddHit("body", 1, 1, 0, 3)
		b := Match{QueryID: "q1", DocID: "d1"}
		b.AddHit("body", 2, 2, 4, 7)

		_ = MergeMatches(a, b)
		if len(a.Hits) != 1 || len(b.Hits) != 1 {
			t.Errorf("inputs mutated: a=%d hits, b=%d hits", len(a.Hits), len(b.Hits))
		}
	})

	t.Run("error propagates from either side", func(t *testing.T) {
		clean := Match{QueryID: "q1", DocID: "d1"}
		failed := Match{QueryID: "q1", DocID: "d1", Err: errors.New("walk fault")}

		if merged := MergeMatches(clean, failed); merged.Err == nil {
			t.Error("merge(clean, failed).Err = nil, want the incoming error")
		}
		if merged := MergeMatches(failed, clean); merged.Err == nil {
			t.Error("merge(failed, clean).Err = nil, want the existing error")
		}
	})

	t.Run("existing error wins when both sides carry one", func(t *testing.T) {
		first := errors.New("first fault")
		second := errors.New("second fault")
		a := Match{QueryID: "q1", DocID: "d1", Err: first}
		b := Match{QueryID: "q1", DocID: "d1", Err: second}

		if merged := MergeMatches(a, b); merged.Err != first {
			t.Errorf("merged.Err = %v, want the first error encountered", merged.Err)
		}
	})
}
