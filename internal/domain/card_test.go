package domain

import "testing"

func TestCardValidate(t *testing.T) {
	t.Parallel()

	valid := Card{
		ID:       "arch-001",
		Level:    2,
		Category: CategoryArchitecture,
		Source:   "Let's align on the agenda.",
		Target:   "議題をすり合わせましょう。",
	}

	testCases := []struct {
		name   string
		mutate func(c *Card)
		want   error
	}{
		{"valid", func(c *Card) {}, nil},
		{"empty id", func(c *Card) { c.ID = " " }, ErrCardIDEmpty},
		{"level too low", func(c *Card) { c.Level = 0 }, ErrInvalidLevel},
		{"level too high", func(c *Card) { c.Level = 6 }, ErrInvalidLevel},
		{"unknown category", func(c *Card) { c.Category = "Cooking" }, ErrInvalidCategory},
		{"all is not a card category", func(c *Card) { c.Category = CategoryAll }, ErrInvalidCategory},
		{"empty source", func(c *Card) { c.Source = "" }, ErrCardSourceEmpty},
		{"empty target", func(c *Card) { c.Target = "" }, ErrCardTargetEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			if err := c.Validate(); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryFilter(t *testing.T) {
	t.Parallel()

	if len(Categories()) != 10 {
		t.Fatalf("expected ten categories, got %d", len(Categories()))
	}

	for _, f := range []Category{"", "all", "ALL", " "} {
		if !f.IsAll() {
			t.Errorf("%q should match every category", f)
		}
		if !f.Matches(CategoryCloud) {
			t.Errorf("%q should match %q", f, CategoryCloud)
		}
	}

	if CategoryCloud.Matches(CategoryArchitecture) {
		t.Error("cloud filter should not match architecture")
	}
	if !CategoryCloud.Matches(CategoryCloud) {
		t.Error("cloud filter should match cloud")
	}
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	var f Favorites
	if !f.Add("a") || !f.Add("b") || f.Add("a") {
		t.Fatal("unexpected Add result")
	}
	if len(f) != 2 || f[0] != "a" || f[1] != "b" {
		t.Fatalf("unexpected order %v", f)
	}
	if !f.Remove("a") || f.Remove("a") {
		t.Fatal("unexpected Remove result")
	}
	if f.Contains("a") || !f.Contains("b") {
		t.Fatalf("unexpected contents %v", f)
	}

	d := Favorites{"x", "y", "x", "z", "y"}.Dedupe()
	if len(d) != 3 || d[0] != "x" || d[1] != "y" || d[2] != "z" {
		t.Errorf("unexpected dedupe result %v", d)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	s.Category = "Cooking"
	if err := s.Validate(); err != ErrInvalidCategory {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	s = DefaultSettings()
	s.QuizMode = "sprint"
	if err := s.Validate(); err != ErrInvalidQuizMode {
		t.Errorf("expected ErrInvalidQuizMode, got %v", err)
	}
}
