package workspace

import "testing"

func TestNewScratchDocument(t *testing.T) {
	d := NewScratchDocument()

	if !d.IsScratch() {
		t.Error("expected scratch document")
	}
	if d.Name() != "Untitled" {
		t.Errorf("expected Untitled, got %q", d.Name())
	}
	if d.Modified() {
		t.Error("new document should not be modified")
	}
	if d.Status() != StatusSaved {
		t.Errorf("expected Saved, got %q", d.Status())
	}
}

func TestDocumentIDsAreUnique(t *testing.T) {
	a, b := NewScratchDocument(), NewScratchDocument()
	if a.ID() == b.ID() {
		t.Error("expected distinct IDs")
	}
}

func TestSetContentRevision(t *testing.T) {
	d := NewDocument("/tmp/a.txt", "hello", false)

	d.SetContent("hello")
	if d.Revision() != 0 {
		t.Errorf("unchanged content should not bump revision, got %d", d.Revision())
	}

	d.SetContent("hello world")
	if d.Revision() != 1 {
		t.Errorf("expected revision 1, got %d", d.Revision())
	}
	if !d.Modified() {
		t.Error("expected modified")
	}
	if d.TabLabel() != "•a.txt" {
		t.Errorf("expected •a.txt, got %q", d.TabLabel())
	}
	if d.Status() != StatusModified {
		t.Errorf("expected Modified, got %q", d.Status())
	}
}

func TestModifiedTracksSavedText(t *testing.T) {
	d := NewDocument("/tmp/a.txt", "abc", false)

	d.SetContent("abcd")
	d.SetContent("abc")
	if d.Modified() {
		t.Error("reverting to saved text should clear modified")
	}
	if d.Revision() != 2 {
		t.Errorf("expected revision 2, got %d", d.Revision())
	}
}

func TestMarkSaved(t *testing.T) {
	d := NewScratchDocument()
	id := d.ID()
	d.SetContent("draft")

	d.MarkSaved("/home/u/draft.txt")

	if d.Modified() {
		t.Error("expected saved")
	}
	if d.Name() != "draft.txt" {
		t.Errorf("expected draft.txt, got %q", d.Name())
	}
	if d.ID() != id {
		t.Error("ID must survive save-as")
	}
}

func TestReadOnlyStatus(t *testing.T) {
	d := NewDocument("/etc/hosts", "127.0.0.1", true)
	d.SetContent("changed")

	if d.Status() != StatusReadOnly {
		t.Errorf("read-only takes precedence, got %q", d.Status())
	}
}

func TestCountText(t *testing.T) {
	tests := []struct {
		text  string
		words int
		chars int
	}{
		{"", 0, 0},
		{"one", 1, 3},
		{"  two   words\n", 2, 14},
		{"tab\tseparated\nlines", 3, 19},
		{"héllo wörld", 2, 11},
		{"é", 1, 1},
		{"🇩🇪 flag", 2, 6},
	}

	for _, tt := range tests {
		c := CountText(tt.text)
		if c.Words != tt.words {
			t.Errorf("CountText(%q).Words = %d, want %d", tt.text, c.Words, tt.words)
		}
		if c.Characters != tt.chars {
			t.Errorf("CountText(%q).Characters = %d, want %d", tt.text, c.Characters, tt.chars)
		}
	}
}

func TestCountsLabels(t *testing.T) {
	c := Counts{Words: 3, Characters: 17}
	if c.WordsLabel() != "Words: 3" {
		t.Errorf("unexpected %q", c.WordsLabel())
	}
	if c.CharactersLabel() != "Characters: 17" {
		t.Errorf("unexpected %q", c.CharactersLabel())
	}
}
