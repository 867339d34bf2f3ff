package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

func samplePreview() *core.ImportPreview {
	id, name := "p1", "Ryan Chen"
	return &core.ImportPreview{
		ID:        uuid.NewString(),
		TeamID:    "team-1",
		Season:    "Spring 2026",
		FileName:  "stats.csv",
		CreatedAt: time.Date(2026, 4, 12, 18, 30, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC),
		Rows: []core.PreviewRow{
			{Index: 0, MatchResult: gamechanger.MatchResult{
				Parsed: gamechanger.ParsedPlayerStats{
					JerseyNumber: 4, LastName: "Chen", FirstName: "Ryan",
					Pitching: &gamechanger.ParsedPitchingStats{IP: 6.2, SO: 9},
				},
				PlayerID:   &id,
				PlayerName: &name,
				MatchedBy:  gamechanger.MatchJerseyNumber,
			}},
			{Index: 1, MatchResult: gamechanger.MatchResult{
				Parsed: gamechanger.ParsedPlayerStats{JerseyNumber: 99, LastName: "Doe", FirstName: "Jane"},
			}},
		},
		Summary:   core.PreviewSummary{Total: 2, ByJersey: 1, Unmatched: 1, Pitchers: 1},
		Conflicts: []core.Conflict{},
	}
}

func TestPreviewKey(t *testing.T) {
	assert.Equal(t, "lineup:preview:abc", previewKey("abc"))
}

func TestPreviewEncoding(t *testing.T) {
	p := samplePreview()

	data, err := encodePreview(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matched_by":null`)

	got, err := decodePreview(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.False(t, got.Rows[1].Matched())
}

func TestDecodePreview_Garbage(t *testing.T) {
	_, err := decodePreview([]byte("{not json"))
	assert.ErrorContains(t, err, "decode preview")
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient("http://localhost:6379")
	assert.ErrorContains(t, err, "parse redis url")
}

func TestPreviewStore_Redis(t *testing.T) {
	url := os.Getenv("LINEUP_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LINEUP_TEST_REDIS_URL not set")
	}

	client, err := NewRedisClient(url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	store := NewRedisPreviewStore(client)
	require.NoError(t, store.HealthCheck(ctx))
	p := samplePreview()

	require.NoError(t, store.Save(ctx, p, time.Minute))
	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Summary, got.Summary)

	taken, err := store.Take(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, taken.ID)
	_, err = store.Take(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrPreviewNotFound, "a preview is taken once")

	require.NoError(t, store.Save(ctx, p, time.Minute))
	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.Get(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrPreviewNotFound)

	require.NoError(t, store.Save(ctx, p, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	_, err = store.Get(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrPreviewNotFound, "expired previews are gone")
}
