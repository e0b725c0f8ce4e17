package conditions

// In-package fakes for the collaborator interfaces.

type fakeContent struct {
	meta      map[int64]map[string]any
	ancestors map[int64][]int64
	terms     map[int64][]int64
	authors   map[int64]int64
	panicky   bool
}

func (f *fakeContent) Meta(itemID int64, key string) (any, bool, error) {
	if f.panicky {
		panic("content source down")
	}
	v, ok := f.meta[itemID][key]
	return v, ok, nil
}

func (f *fakeContent) Ancestors(itemID int64) ([]int64, error) {
	return f.ancestors[itemID], nil
}

func (f *fakeContent) Terms(itemID int64, taxonomy string) ([]int64, error) {
	return f.terms[itemID], nil
}

func (f *fakeContent) Author(itemID int64) (int64, bool, error) {
	id, ok := f.authors[itemID]
	return id, ok, nil
}

type fakeUsers struct {
	meta map[int64]map[string]any
}

func (f *fakeUsers) Meta(userID int64, key string) (any, bool, error) {
	v, ok := f.meta[userID][key]
	return v, ok, nil
}

type fakeOptions struct {
	options map[string]any
}

func (f *fakeOptions) Option(name string) (any, bool, error) {
	v, ok := f.options[name]
	return v, ok, nil
}

func testSources() Sources {
	return Sources{
		Content: &fakeContent{
			meta: map[int64]map[string]any{
				42: {"featured": "yes", "price": "19"},
				7:  {"featured": "no"},
			},
			ancestors: map[int64][]int64{
				42: {10, 2},
				99: {42, 10, 2},
			},
			terms: map[int64][]int64{
				42: {5, 9},
			},
			authors: map[int64]int64{
				42: 3,
				7:  4,
			},
		},
		Users: &fakeUsers{
			meta: map[int64]map[string]any{
				1: {"newsletter": "weekly"},
				3: {"team": "editorial"},
			},
		},
		Options: &fakeOptions{
			options: map[string]any{
				"locale":    "en-US",
				"site_name": "Example",
			},
		},
	}
}
