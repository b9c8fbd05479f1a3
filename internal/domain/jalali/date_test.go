package jalali

import "testing"

func TestFull(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1404/9/3", "1404/09/03"},
		{"04.09.29", "1404/09/29"},
		{" 1403-12-1 ", "1403/12/01"},
		{"۱۴۰۴/۰۵/۰۱", "1404/05/01"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Full(c.in); got != c.want {
			t.Errorf("Full(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShort(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1404/9/3", "04.09.03"},
		{"04/09/29", "04.09.29"},
		{"date 03.11.02", "03.11.02"},
		{"1404 07 01", "1404 07 01"},
		{"x/y", "x.y"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Short(c.in); got != c.want {
			t.Errorf("Short(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := ShortOrUnknown("  "); got != Unknown {
		t.Errorf("ShortOrUnknown(blank) = %q", got)
	}
}

func TestFolderAndValid(t *testing.T) {
	if got := Folder("1404/2/7"); got != "1404-02-07" {
		t.Fatalf("Folder = %q", got)
	}
	if !Valid("04-2-7") || Valid("2024") {
		t.Fatal("Valid misclassified input")
	}
}
