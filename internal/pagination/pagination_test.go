package pagination

import "testing"

func TestDefaults(t *testing.T) {
	req := PageRequest{}
	req.Defaults()
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("expected page 1 size 20, got %d/%d", req.Page, req.PageSize)
	}

	req = PageRequest{Page: 3, PageSize: 50}
	req.Defaults()
	if req.Page != 3 || req.PageSize != 50 {
		t.Errorf("explicit values must survive Defaults, got %d/%d", req.Page, req.PageSize)
	}
}

func TestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 1, 2, 5)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if !resp.HasMore {
		t.Error("expected more pages after page 1 of 3")
	}

	last := NewPageResponse([]string{"e"}, 3, 2, 5)
	if last.HasMore {
		t.Error("expected no more pages on the last page")
	}

	empty := NewPageResponse[string](nil, 1, 20, 0)
	if empty.Data == nil || len(empty.Data) != 0 {
		t.Errorf("expected empty slice, got %v", empty.Data)
	}
	if empty.HasMore {
		t.Error("expected no more pages for an empty result")
	}
}
