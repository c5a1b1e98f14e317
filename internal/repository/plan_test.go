package repository

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TestBuildCopyName проверяет ограничение длины названия копии плана.
func TestBuildCopyName(t *testing.T) {
	original := strings.Repeat("д", 210)
	result := buildCopyName(original, 200)

	if !strings.HasPrefix(result, "Copy of ") {
		t.Fatalf("expected prefix, got %s", result)
	}

	if utf8.RuneCountInString(result) > 200 {
		t.Fatalf("expected result length <= 200, got %d", utf8.RuneCountInString(result))
	}

	if short := buildCopyName("Vata plan", 200); short != "Copy of Vata plan" {
		t.Fatalf("unexpected short copy name: %s", short)
	}
}

// TestMappedIDsKeepsOrder проверяет сопоставление старых и новых приемов пищи.
func TestMappedIDsKeepsOrder(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	newFirst, newSecond := uuid.New(), uuid.New()

	result := mappedIDs([]uuid.UUID{second, first}, map[uuid.UUID]uuid.UUID{first: newFirst, second: newSecond})

	if len(result) != 2 || result[0] != newSecond || result[1] != newFirst {
		t.Fatalf("unexpected mapping: %v", result)
	}
}
