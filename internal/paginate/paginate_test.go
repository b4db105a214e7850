package paginate

import (
	"reflect"
	"testing"
)

func pages(sel []Selector) []int {
	var out []int
	for _, s := range sel {
		if s.Kind == KindPage {
			out = append(out, s.Page)
		}
	}
	return out
}

func kinds(sel []Selector) []Kind {
	out := make([]Kind, len(sel))
	for i, s := range sel {
		out[i] = s.Kind
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{97, 20, 5},
		{100, 20, 5},
		{101, 20, 6},
		{0, 20, 1},
		{1, 20, 1},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestBoundsAtLastPage(t *testing.T) {
	total := TotalPages(97, 20)
	hasPrev, hasNext := Bounds(5, total)
	if !hasPrev || hasNext {
		t.Errorf("Bounds(5, %d) = %v, %v; want true, false", total, hasPrev, hasNext)
	}
	hasPrev, hasNext = Bounds(1, total)
	if hasPrev || !hasNext {
		t.Errorf("Bounds(1, %d) = %v, %v; want false, true", total, hasPrev, hasNext)
	}
}

func TestWindowNeverOffersPastLastPage(t *testing.T) {
	sel := Window(5, TotalPages(97, 20))
	if Offers(sel, 6) {
		t.Errorf("window %v offers page 6", sel)
	}
	if !Offers(sel, 1) || !Offers(sel, 5) {
		t.Errorf("window %v should offer pages 1 and 5", sel)
	}
}

func TestWindowShapes(t *testing.T) {
	tests := []struct {
		name         string
		current, tot int
		wantPages    []int
		wantKinds    []Kind
	}{
		{"single page", 1, 1, []int{1}, []Kind{KindPage}},
		{"fits", 2, 4, []int{1, 2, 3, 4}, []Kind{KindPage, KindPage, KindPage, KindPage}},
		{"first of many", 1, 10, []int{1, 2, 3, 4, 5},
			[]Kind{KindPage, KindPage, KindPage, KindPage, KindPage, KindEllipsis, KindLast}},
		{"middle", 6, 12, []int{4, 5, 6, 7, 8},
			[]Kind{KindFirst, KindEllipsis, KindPage, KindPage, KindPage, KindPage, KindPage, KindEllipsis, KindLast}},
		{"last of many", 10, 10, []int{6, 7, 8, 9, 10},
			[]Kind{KindFirst, KindEllipsis, KindPage, KindPage, KindPage, KindPage, KindPage}},
		{"no gap after first", 4, 7, []int{2, 3, 4, 5, 6},
			[]Kind{KindFirst, KindPage, KindPage, KindPage, KindPage, KindPage, KindLast}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Window(tt.current, tt.tot)
			if got := pages(sel); !reflect.DeepEqual(got, tt.wantPages) {
				t.Errorf("pages = %v, want %v", got, tt.wantPages)
			}
			if got := kinds(sel); !reflect.DeepEqual(got, tt.wantKinds) {
				t.Errorf("kinds = %v, want %v", got, tt.wantKinds)
			}
		})
	}
}

func TestWindowInvariants(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for cur := 1; cur <= total; cur++ {
			sel := Window(cur, total)
			ps := pages(sel)
			if len(ps) > MaxVisible {
				t.Fatalf("Window(%d, %d) has %d numeric pages", cur, total, len(ps))
			}
			found := false
			for i, p := range ps {
				if p == cur {
					found = true
					if !sel[indexOfPage(sel, p)].Current {
						t.Fatalf("Window(%d, %d) does not mark current page", cur, total)
					}
				}
				if i > 0 && p != ps[i-1]+1 {
					t.Fatalf("Window(%d, %d) pages not consecutive: %v", cur, total, ps)
				}
				if p < 1 || p > total {
					t.Fatalf("Window(%d, %d) out of range page %d", cur, total, p)
				}
			}
			if !found {
				t.Fatalf("Window(%d, %d) = %v misses current page", cur, total, ps)
			}
			if !reflect.DeepEqual(sel, Window(cur, total)) {
				t.Fatalf("Window(%d, %d) not stable", cur, total)
			}
		}
	}
}

func TestWindowClampsOutOfRange(t *testing.T) {
	if got := pages(Window(9, 3)); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("pages = %v, want [1 2 3]", got)
	}
	if got := pages(Window(0, 0)); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("pages = %v, want [1]", got)
	}
}

func indexOfPage(sel []Selector, page int) int {
	for i, s := range sel {
		if s.Kind == KindPage && s.Page == page {
			return i
		}
	}
	return -1
}
