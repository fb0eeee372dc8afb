package catalog

import (
	"testing"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

func TestFilter_TextAndKind(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	c.AddCompleted("", touch(t, dir, "my trip.mp4", time.Time{}))
	c.AddCompleted("", touch(t, dir, "work.mp3", time.Time{}))

	c.Filter("trip", model.FilterAll)
	if got := names(c.Visible()); !equalStrings(got, []string{"my trip.mp4"}) {
		t.Errorf("filter(trip, ALL) = %v, expected [my trip.mp4]", got)
	}

	c.Filter("", model.FilterMusic)
	if got := names(c.Visible()); !equalStrings(got, []string{"work.mp3"}) {
		t.Errorf("filter(\"\", Music) = %v, expected [work.mp3]", got)
	}

	if len(c.Rows()) != 2 {
		t.Errorf("filtering removed rows: %v", names(c.Rows()))
	}
}

func TestFilter_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	c.AddCompleted("", touch(t, dir, "Straße nach Köln.mp4", time.Time{}))

	for _, q := range []string{"NACH", "köln", "KÖLN"} {
		c.Filter(q, model.FilterAll)
		if len(c.Visible()) != 1 {
			t.Errorf("filter(%q) hid the row", q)
		}
	}
}

func TestFilter_AppliesToNewRows(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	c.Filter("", model.FilterText)

	row, _ := c.AddCompleted("", touch(t, dir, "clip.mp4", time.Time{}))
	if row.Visible {
		t.Error("video row visible under Text filter")
	}
	txt, _ := c.AddDerivedAsset(touch(t, dir, "clip.transcript.txt", time.Time{}))
	if !txt.Visible {
		t.Error("transcript row hidden under Text filter")
	}

	dl := c.AddDownloading("https://example.com/x", model.QualityBest)
	if !dl.Visible {
		t.Error("downloading row hidden by kind filter")
	}
}

func TestMatches(t *testing.T) {
	row := model.CatalogRow{State: model.RowCompleted, Kind: model.KindVideo, Path: "/d/Trip.MP4"}
	tests := []struct {
		query    string
		kind     model.KindFilter
		expected bool
	}{
		{"", model.FilterAll, true},
		{"", "", true},
		{"trip", model.FilterVideo, true},
		{"trip", model.FilterMusic, false},
		{"/d", model.FilterAll, false},
		{"beach", model.FilterAll, false},
	}

	for _, tt := range tests {
		if got := Matches(row, tt.query, tt.kind); got != tt.expected {
			t.Errorf("Matches(%q, %q) = %v, expected %v", tt.query, tt.kind, got, tt.expected)
		}
	}
}

func TestCurrentFilter(t *testing.T) {
	c := NewController(nil)
	if q, kind := c.CurrentFilter(); q != "" || kind != model.FilterAll {
		t.Errorf("initial filter = %q/%s", q, kind)
	}

	c.Filter("  trip ", model.FilterVideo)
	if q, kind := c.CurrentFilter(); q != "trip" || kind != model.FilterVideo {
		t.Errorf("CurrentFilter = %q/%s, expected trip/%s", q, kind, model.FilterVideo)
	}

	c.Filter("", "")
	if _, kind := c.CurrentFilter(); kind != model.FilterAll {
		t.Errorf("empty kind = %s, expected %s", kind, model.FilterAll)
	}
}
