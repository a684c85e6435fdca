package service

import (
	"strings"
	"testing"

	"tabnote-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "Recipes", want: "Recipes"},
		{name: "surrounding whitespace", in: "  Recipes \t", want: "Recipes"},
		{name: "inner whitespace kept", in: "Dinner  Ideas", want: "Dinner  Ideas"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: " \n\t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyTitle)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func listItems(titles ...string) []dto.NotebookListItemResponse {
	items := make([]dto.NotebookListItemResponse, 0, len(titles))
	for _, title := range titles {
		items = append(items, dto.NotebookListItemResponse{Id: uuid.New(), Title: title})
	}
	return items
}

func TestFilterNotebooks(t *testing.T) {
	items := listItems("Recipes", "Work Journal", "recipe drafts", "Travel")

	t.Run("blank query returns everything", func(t *testing.T) {
		assert.Len(t, FilterNotebooks(items, ""), 4)
		assert.Len(t, FilterNotebooks(items, "   "), 4)
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := FilterNotebooks(items, "RECIPE")
		assert.Len(t, got, 2)
		assert.Equal(t, "Recipes", got[0].Title)
		assert.Equal(t, "recipe drafts", got[1].Title)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FilterNotebooks(items, "groceries"))
	})
}

func TestFilterNotebooksProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		titles := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z ]{0,12}`), 0, 20).Draw(t, "titles")
		query := rapid.StringMatching(`[A-Za-z ]{0,6}`).Draw(t, "query")

		items := listItems(titles...)
		filtered := FilterNotebooks(items, query)

		// Never grows, keeps relative order, and every survivor matches.
		if len(filtered) > len(items) {
			t.Fatalf("filter grew the list: %d > %d", len(filtered), len(items))
		}

		needle := strings.TrimSpace(strings.ToLower(query))
		j := 0
		for _, item := range filtered {
			if needle != "" && !strings.Contains(strings.ToLower(item.Title), needle) {
				t.Fatalf("title %q does not contain %q", item.Title, needle)
			}
			for j < len(items) && items[j].Id != item.Id {
				j++
			}
			if j == len(items) {
				t.Fatalf("filtered item %q out of order or not from input", item.Title)
			}
		}

		// Filtering twice changes nothing.
		again := FilterNotebooks(filtered, query)
		if len(again) != len(filtered) {
			t.Fatalf("filter is not idempotent: %d != %d", len(again), len(filtered))
		}
	})
}
