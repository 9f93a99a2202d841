package zillow

import (
	"reflect"
	"testing"
)

const (
	goodImageA = "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536.jpg"
	goodImageB = "https://photos.zillowstatic.com/fp/eeee5555ffff6666aaaa7777bbbb8888-cc_ft_768.jpg"
)

func TestKeepImageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"full-size photo", goodImageA, true},
		{"uppercase extension", "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536.JPEG", true},
		{"too short", "https://photos.zillowstatic.com/x-cc_ft_.jpg", false},
		{"wrong host", "https://images.example.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536.jpg", false},
		{"not a jpeg", "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536.png", false},
		{"thumbnail variant", "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-p_c_600.jpg", false},
		{"elevation tile despite full-size marker", "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536-p_e.jpg", false},
		{"interactive plan", "https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-cc_ft_1536-p_i.jpg", false},
		{"site logo", "https://photos.zillowstatic.com/static/zillow_web_logo-banner-cc_ft_1536.jpg", false},
		{"placeholder", "https://photos.zillowstatic.com/fp/placeholder-aaaa1111bbbb2222cccc3333-cc_ft_1536.jpg", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		if got := keepImageURL(tt.url); got != tt.want {
			t.Errorf("%s: keepImageURL(%q) = %v; want %v", tt.name, tt.url, got, tt.want)
		}
	}
}

func TestFilterAndSort(t *testing.T) {
	raw := []string{
		goodImageB,
		goodImageA,
		goodImageB,
		"https://photos.zillowstatic.com/fp/aaaa1111bbbb2222cccc3333dddd4444-p_c_600.jpg",
		"",
	}

	got := filterAndSort(raw)
	want := []string{goodImageA, goodImageB}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterAndSort = %v; want %v", got, want)
	}
}

func TestFilterAndSortEmptyInput(t *testing.T) {
	got := filterAndSort(nil)
	if got == nil {
		t.Fatal("filterAndSort(nil) should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("filterAndSort(nil) = %v; want empty", got)
	}
}

func TestCollectFromHTML(t *testing.T) {
	html := `<html><body>
		<ul class="hollywood-vertical-media-wall-container">
			<li><img src="` + goodImageA + `"></li>
			<li><img data-src="` + goodImageB + `"></li>
			<li><img data-lazy-src="https://photos.zillowstatic.com/fp/1111aaaa2222bbbb3333cccc4444dddd-cc_ft_384.jpg"></li>
		</ul>
		<img src="https://www.zillow.com/static/logo.svg">
		<img src="">
	</body></html>`

	urls := collectFromHTML(html)
	if len(urls) != 4 {
		t.Fatalf("collectFromHTML found %d urls; want 4: %v", len(urls), urls)
	}

	images := filterAndSort(urls)
	want := []string{
		"https://photos.zillowstatic.com/fp/1111aaaa2222bbbb3333cccc4444dddd-cc_ft_384.jpg",
		goodImageA,
		goodImageB,
	}
	if !reflect.DeepEqual(images, want) {
		t.Errorf("filtered snapshot images = %v; want %v", images, want)
	}
}
