package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id with whitespace", "  dQw4w9WgXcQ\n", "dQw4w9WgXcQ", true},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk", true},
		{"too short", "dQw4w9", "", false},
		{"channel url", "https://www.youtube.com/@mkbhd", "", false},
		{"empty", "", "", false},
		{"other site", "https://vimeo.com/123456789", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParseChannelURL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   ChannelRef
		wantOK bool
	}{
		{
			name:   "handle url",
			input:  "https://www.youtube.com/@mkbhd",
			want:   ChannelRef{Type: ChannelTypeHandle, Value: "mkbhd"},
			wantOK: true,
		},
		{
			name:   "handle url with videos tab",
			input:  "https://www.youtube.com/@Fireship/videos",
			want:   ChannelRef{Type: ChannelTypeHandle, Value: "Fireship"},
			wantOK: true,
		},
		{
			name:   "bare handle",
			input:  "@veritasium",
			want:   ChannelRef{Type: ChannelTypeHandle, Value: "veritasium"},
			wantOK: true,
		},
		{
			name:   "channel id url",
			input:  "https://www.youtube.com/channel/UCBJycsmduvYEL83R_U4JriQ",
			want:   ChannelRef{Type: ChannelTypeID, Value: "UCBJycsmduvYEL83R_U4JriQ"},
			wantOK: true,
		},
		{
			name:   "bare channel id",
			input:  "UCBJycsmduvYEL83R_U4JriQ",
			want:   ChannelRef{Type: ChannelTypeID, Value: "UCBJycsmduvYEL83R_U4JriQ"},
			wantOK: true,
		},
		{
			name:   "custom url",
			input:  "https://www.youtube.com/c/LinusTechTips",
			want:   ChannelRef{Type: ChannelTypeCustomURL, Value: "LinusTechTips"},
			wantOK: true,
		},
		{
			name:   "user path",
			input:  "youtube.com/user/pewdiepie",
			want:   ChannelRef{Type: ChannelTypeUser, Value: "pewdiepie"},
			wantOK: true,
		},
		{name: "empty handle url", input: "https://www.youtube.com/@", wantOK: false},
		{name: "bare at sign", input: "@", wantOK: false},
		{name: "video url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantOK: false},
		{name: "garbage", input: "not a url", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseChannelURL(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, ref)
			} else {
				assert.Empty(t, ref.Value)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindVideo, Classify("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, KindChannel, Classify("https://www.youtube.com/@mkbhd"))
	assert.Equal(t, KindUnknown, Classify("https://www.youtube.com/@"))
	assert.Equal(t, KindUnknown, Classify(""))
}

func TestChannelRefURLs(t *testing.T) {
	tests := []struct {
		ref  ChannelRef
		want string
	}{
		{ChannelRef{ChannelTypeHandle, "mkbhd"}, "https://www.youtube.com/@mkbhd"},
		{ChannelRef{ChannelTypeID, "UCBJycsmduvYEL83R_U4JriQ"}, "https://www.youtube.com/channel/UCBJycsmduvYEL83R_U4JriQ"},
		{ChannelRef{ChannelTypeCustomURL, "LinusTechTips"}, "https://www.youtube.com/c/LinusTechTips"},
		{ChannelRef{ChannelTypeUser, "pewdiepie"}, "https://www.youtube.com/user/pewdiepie"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.CanonicalURL())
		assert.Equal(t, tt.want+"/videos", tt.ref.VideosURL())
	}
	assert.Empty(t, ChannelRef{}.VideosURL())
}

func TestThumbnailAndVideoURL(t *testing.T) {
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", ThumbnailURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", VideoURL("dQw4w9WgXcQ"))
}
