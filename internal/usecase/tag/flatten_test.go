package tag

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-tagger/internal/domain/entity"
)

func TestFlatten(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	batch := []Request{
		{ArticleID: "a1", Tags: []string{"news", "global", "news"}},
		{ArticleID: "a2", Tags: []string{}},
		{ArticleID: "a3", Tags: []string{"sports"}},
	}

	rows, err := Flatten(batch, "editor", now)
	require.NoError(t, err)

	total := 0
	for _, r := range batch {
		total += len(r.Tags)
	}
	require.Len(t, rows, total)

	want := [][2]string{{"a1", "news"}, {"a1", "global"}, {"a1", "news"}, {"a3", "sports"}}
	for i, row := range rows {
		assert.Equal(t, want[i][0], row.ArticleID)
		assert.Equal(t, want[i][1], row.Name)
		assert.Equal(t, "editor", row.TaggedBy)
		assert.Equal(t, now, row.TaggedAt)
		assert.Nil(t, row.Value)
	}
}

func TestFlatten_Empty(t *testing.T) {
	rows, err := Flatten(nil, "editor", time.Now())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFlatten_Validation(t *testing.T) {
	tests := []struct {
		name  string
		batch []Request
		field string
	}{
		{name: "missing article id", batch: []Request{{Tags: []string{"news"}}}, field: "[0].article_id"},
		{name: "article id too long", batch: []Request{{ArticleID: strings.Repeat("a", 91), Tags: []string{}}}, field: "[0].article_id"},
		{name: "null tags", batch: []Request{{ArticleID: "a1", Tags: []string{"x"}}, {ArticleID: "a2"}}, field: "[1].tags"},
		{name: "empty tag name", batch: []Request{{ArticleID: "a1", Tags: []string{"news", ""}}}, field: "[0].tags[1]"},
		{name: "tag name too long", batch: []Request{{ArticleID: "a1", Tags: []string{strings.Repeat("t", 46)}}}, field: "[0].tags[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.batch, "editor", time.Now())
			var ve *entity.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
