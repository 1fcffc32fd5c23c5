package media

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"temple, heritage, fort", []string{"temple", "heritage", "fort"}},
		{"  Temple ,TEMPLE, fort ", []string{"temple", "fort"}},
		{"", []string{}},
		{", , ,", []string{}},
		{"waterfall", []string{"waterfall"}},
	}
	for _, tc := range cases {
		if got := ParseTags(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFileTypeFromMime(t *testing.T) {
	if got := fileTypeFromMime("video/mp4"); got != FileTypeVideo {
		t.Errorf("video/mp4 = %q, want video", got)
	}
	if got := fileTypeFromMime("image/png"); got != FileTypeImage {
		t.Errorf("image/png = %q, want image", got)
	}
}

func TestFileTypeFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/clip.mp4":            FileTypeVideo,
		"https://cdn.example.com/clip.MOV":            FileTypeVideo,
		"https://cdn.example.com/clip.webm?sig=abc":   FileTypeVideo,
		"https://cdn.example.com/photo.jpg":           FileTypeImage,
		"https://cdn.example.com/photo.jpg#fragment":  FileTypeImage,
		"https://cdn.example.com/page-without-ext":    FileTypeImage,
		"https://cdn.example.com/dir.mp4dir/photo":    FileTypeImage,
	}
	for url, want := range cases {
		if got := fileTypeFromURL(url); got != want {
			t.Errorf("fileTypeFromURL(%q) = %q, want %q", url, got, want)
		}
	}
}
