package tools

import "testing"

func TestParseToolLineBasic(t *testing.T) {
	tl, ok := ParseToolLine("FETCH_URL: https://example.com")
	if !ok {
		t.Fatal("expected match")
	}
	if tl.Prefix != PrefixFetchURL || tl.Arg != "https://example.com" {
		t.Fatalf("got %+v", tl)
	}
}

func TestParseToolLineRecommendPrefixStripped(t *testing.T) {
	tl, ok := ParseToolLine("RECOMMEND: FETCH_URL: https://a.example")
	if !ok || tl.Prefix != PrefixFetchURL || tl.Arg != "https://a.example" {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}
}

func TestParseToolLineSchedulerAliasNormalizes(t *testing.T) {
	tl, ok := ParseToolLine("SCHEDULER: every 5 minutes do the thing")
	if !ok || tl.Prefix != PrefixSchedule {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}
}

func TestParseToolLineSemicolonTruncation(t *testing.T) {
	tl, ok := ParseToolLine("FETCH_URL: https://example.com; ignore this")
	if !ok || tl.Arg != "https://example.com" {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}

	tl2, ok := ParseToolLine("BRAVE_SEARCH: weather; today")
	if !ok || tl2.Arg != "weather" {
		t.Fatalf("got %+v, ok=%v", tl2, ok)
	}
}

func TestParseToolLineEmptyArgAllowedOnlyForTaskListAndShow(t *testing.T) {
	if _, ok := ParseToolLine("TASK_LIST:"); !ok {
		t.Fatal("TASK_LIST: with empty arg should match")
	}
	if _, ok := ParseToolLine("TASK_LIST"); !ok {
		t.Fatal("bare TASK_LIST should match as equivalent to TASK_LIST:")
	}
	if _, ok := ParseToolLine("TASK_SHOW:"); !ok {
		t.Fatal("TASK_SHOW: with empty arg should match")
	}
	if _, ok := ParseToolLine("TASK_APPEND:"); ok {
		t.Fatal("TASK_APPEND: with empty arg should not match")
	}
	if _, ok := ParseToolLine("FETCH_URL:"); ok {
		t.Fatal("FETCH_URL: with empty arg should not match")
	}
}

func TestParseToolLineNoMatch(t *testing.T) {
	if _, ok := ParseToolLine("just a normal answer with no tool line"); ok {
		t.Fatal("expected no match")
	}
}

func TestParseToolLineCaseInsensitivePrefix(t *testing.T) {
	tl, ok := ParseToolLine("fetch_url: https://example.com")
	if !ok || tl.Prefix != PrefixFetchURL {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}
}

func TestParseToolLineFirstNonEmptyLine(t *testing.T) {
	tl, ok := ParseToolLine("\n\n   \nTASK_SHOW: 7\nmore text after")
	if !ok || tl.Prefix != PrefixTaskShow || tl.Arg != "7" {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}
}

func TestParseToolLineRemoveScheduleNotShadowedBySchedule(t *testing.T) {
	tl, ok := ParseToolLine("REMOVE_SCHEDULE: abc-123")
	if !ok || tl.Prefix != PrefixRemoveSchedule || tl.Arg != "abc-123" {
		t.Fatalf("got %+v, ok=%v", tl, ok)
	}
}
