package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{
			"https://res.cloudinary.com/demo/image/upload/v1712345678/trip_note/alice/n1/20260402/temple.jpg",
			"trip_note/alice/n1/20260402/temple",
		},
		{
			// No version segment.
			"https://res.cloudinary.com/demo/image/upload/trip_note/alice/n1/20260402/temple.png",
			"trip_note/alice/n1/20260402/temple",
		},
		{
			// Filename without extension.
			"https://res.cloudinary.com/demo/image/upload/v1/trip_note/bob/n2/20260110/shot",
			"trip_note/bob/n2/20260110/shot",
		},
	}
	for _, tc := range cases {
		got, err := publicIDFromURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}
}

func TestPublicIDFromURLRejectsForeignURL(t *testing.T) {
	_, err := publicIDFromURL("https://example.com/images/temple.jpg")
	assert.Error(t, err)
}
