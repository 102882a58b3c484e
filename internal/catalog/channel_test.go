package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
  <title>Some Channel</title>
  <entry>
    <id>yt:video:abc123</id>
    <yt:videoId>abc123</yt:videoId>
    <title>First Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=abc123"/>
    <author><name>Some Channel</name></author>
    <published>2025-04-01T10:00:00+00:00</published>
    <media:group>
      <media:thumbnail url="https://img.example/abc123.jpg" width="480" height="360"/>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:def456</id>
    <yt:videoId>def456</yt:videoId>
    <title>Second Upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=def456"/>
    <author><name>Some Channel</name></author>
    <published>2025-04-02T10:00:00+00:00</published>
  </entry>
</feed>`

func TestChannelFeed_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(uploadsFeed))
	}))
	defer srv.Close()

	cf := NewChannelFeed("streamix-test/1.0", 5*time.Second)
	title, videos, err := cf.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Some Channel", title)
	require.Len(t, videos, 2)
	assert.Equal(t, "abc123", videos[0].ID)
	assert.Equal(t, "First Upload", videos[0].Title)
	assert.Equal(t, "Some Channel", videos[0].ChannelTitle)
	assert.Equal(t, "https://img.example/abc123.jpg", videos[0].ThumbnailURL)
	assert.Equal(t, 2025, videos[0].PublishedAt.Year())
	assert.Equal(t, "def456", videos[1].ID)
}

func TestChannelFeed_Fetch_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer srv.Close()

	cf := NewChannelFeed("", 5*time.Second)
	_, _, err := cf.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUploadsFeedURL(t *testing.T) {
	got := UploadsFeedURL("UCabc")
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc", got)
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
}
