package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-api/utils"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Home & Kitchen", "home-kitchen"},
		{"  Video Games!  ", "video-games"},
		{"already-a-slug", "already-a-slug"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Dashes --- Galore", "dashes-galore"},
		{"ÜMLAUT café", "mlaut-caf"},
		{"123 Numbers", "123-numbers"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}
