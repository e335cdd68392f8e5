package tagger

import "testing"

func TestExtract_SubsetOfVocabulary(t *testing.T) {
	t.Parallel()

	vocab := make(map[string]struct{})
	for _, v := range Vocabulary() {
		vocab[v] = struct{}{}
	}

	tags := Extract("I'm stressed about work and my startup, can't sleep")
	if len(tags) == 0 {
		t.Fatal("expected tags")
	}
	for _, tag := range tags {
		if _, ok := vocab[tag]; !ok {
			t.Fatalf("tag %q not in vocabulary", tag)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	const content = "worried about money and my career, no confidence"
	first := Extract(content)
	second := Extract(content)
	if len(first) != len(second) {
		t.Fatalf("len mismatch: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order changed: %v vs %v", first, second)
		}
	}
}

func TestExtract_NoKeywords(t *testing.T) {
	t.Parallel()

	if tags := Extract("the quick brown fox"); len(tags) != 0 {
		t.Fatalf("tags=%v, want none", tags)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	t.Parallel()

	tags := Extract("ANXIETY about WORK")
	if len(tags) != 2 || tags[0] != "anxiety" || tags[1] != "work" {
		t.Fatalf("tags=%v", tags)
	}
}

func TestExtractAll_UnionWithoutDuplicates(t *testing.T) {
	t.Parallel()

	tags := ExtractAll([]string{"work work work", "work and family", "family"})
	if len(tags) != 2 || tags[0] != "work" || tags[1] != "family" {
		t.Fatalf("tags=%v", tags)
	}
}
