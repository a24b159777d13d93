package commandService

import (
	"testing"

	"EchoOS/internal/entity"
	"EchoOS/pkg/nlp"
)

func testPhraseTable() entity.PhraseTable {
	return entity.PhraseTable{
		Categories: []entity.PhraseCategory{
			{
				Name: entity.CategoryControl,
				Intents: []entity.PhraseIntent{
					{Name: "start_listening", Phrases: []string{"start listening", "wake up"}},
					{Name: "stop_listening", Phrases: []string{"stop listening", "pause listening"}},
				},
			},
			{
				Name: entity.CategorySystem,
				Intents: []entity.PhraseIntent{
					{Name: "shutdown", Phrases: []string{"shut down", "shutdown", "power off"}},
					{Name: "restart", Phrases: []string{"restart", "reboot"}},
				},
			},
			{
				Name: entity.CategoryApp,
				Intents: []entity.PhraseIntent{
					{Name: "open", Phrases: []string{"open", "launch"}},
					{Name: "close", Phrases: []string{"close", "quit"}},
				},
			},
			{
				Name: entity.CategoryFile,
				Intents: []entity.PhraseIntent{
					{Name: "open_file", Phrases: []string{"open file"}},
					{Name: "list_files", Phrases: []string{"list files", "show my files"}},
					{Name: "delete_file", Phrases: []string{"delete file", "remove file"}},
				},
			},
			{
				Name: entity.CategoryWeb,
				Intents: []entity.PhraseIntent{
					{Name: "open_website", Phrases: []string{"open website"}},
					{Name: "search_google", Phrases: []string{"search google for", "google"}},
				},
			},
			{
				Name: entity.CategoryVolume,
				Intents: []entity.PhraseIntent{
					{Name: "up", Phrases: []string{"volume up", "increase volume"}},
					{Name: "down", Phrases: []string{"volume down", "decrease volume"}},
				},
			},
			{
				Name: entity.CategoryInfo,
				Intents: []entity.PhraseIntent{
					{Name: "time", Phrases: []string{"what time is it"}},
				},
			},
		},
	}
}

func newTestParser() *parserDomainImpl {
	return &parserDomainImpl{
		log:     testLogger(),
		table:   testPhraseTable(),
		matcher: nlp.NewMatcher(),
		opts:    Options{MatchThreshold: 0.6},
	}
}

func TestParseEmptyTranscript(t *testing.T) {
	p := newTestParser()

	for _, text := range []string{"", "   ", "?!,"} {
		cmd := p.Parse(text)
		if !cmd.IsUnknown() {
			t.Errorf("Parse(%q) = %v, want unknown", text, cmd)
		}
	}
}

func TestParseUnmatchedTranscript(t *testing.T) {
	p := newTestParser()

	cmd := p.Parse("flibber jabberwock contraption")
	if !cmd.IsUnknown() {
		t.Errorf("got %s/%s, want unknown", cmd.Category, cmd.Intent)
	}
	if cmd.RawText != "flibber jabberwock contraption" {
		t.Errorf("raw text = %q", cmd.RawText)
	}
}

func TestParseKnownCommands(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		text     string
		category entity.CommandCategory
		intent   string
	}{
		{"shut down", entity.CategorySystem, "shutdown"},
		{"please shut down the computer", entity.CategorySystem, "shutdown"},
		{"power off", entity.CategorySystem, "shutdown"},
		{"restart", entity.CategorySystem, "restart"},
		{"open chrome", entity.CategoryApp, "open"},
		{"stop listening", entity.CategoryControl, "stop_listening"},
		{"list files", entity.CategoryFile, "list_files"},
		{"what time is it", entity.CategoryInfo, "time"},
		{"volume up", entity.CategoryVolume, "up"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := p.Parse(tt.text)
			if cmd.Category != tt.category || cmd.Intent != tt.intent {
				t.Errorf("Parse(%q) = %s/%s, want %s/%s",
					tt.text, cmd.Category, cmd.Intent, tt.category, tt.intent)
			}
			if cmd.Confidence < 0.6 {
				t.Errorf("confidence = %v, want >= 0.6", cmd.Confidence)
			}
		})
	}
}

func TestParseSlotExtraction(t *testing.T) {
	p := newTestParser()

	t.Run("app name", func(t *testing.T) {
		cmd := p.Parse("open chrome")
		if got := cmd.Parameters["app_name"]; got != "chrome" {
			t.Errorf("app_name = %q, want chrome", got)
		}
	})

	t.Run("filename keeps its extension", func(t *testing.T) {
		cmd := p.Parse("open file report.txt")
		if cmd.Intent != "open_file" {
			t.Fatalf("intent = %s/%s, want file/open_file", cmd.Category, cmd.Intent)
		}
		if got := cmd.Parameters["filename"]; got != "report.txt" {
			t.Errorf("filename = %q, want report.txt", got)
		}
	})

	t.Run("search query", func(t *testing.T) {
		cmd := p.Parse("search google for cute cats")
		if cmd.Intent != "search_google" {
			t.Fatalf("intent = %s/%s", cmd.Category, cmd.Intent)
		}
		if got := cmd.Parameters["query"]; got != "cute cats" {
			t.Errorf("query = %q, want %q", got, "cute cats")
		}
	})

	t.Run("volume amount", func(t *testing.T) {
		cmd := p.Parse("volume up 20")
		if cmd.Intent != "up" {
			t.Fatalf("intent = %s/%s", cmd.Category, cmd.Intent)
		}
		if got := cmd.Parameters["amount"]; got != "20" {
			t.Errorf("amount = %q, want 20", got)
		}
	})

	t.Run("volume without amount", func(t *testing.T) {
		cmd := p.Parse("volume up")
		if _, ok := cmd.Parameters["amount"]; ok {
			t.Error("amount should be absent when the transcript has no number")
		}
	})
}

func TestParsePrefersLongerSubstringMatch(t *testing.T) {
	p := newTestParser()

	// "open file x" token-overlaps app/open perfectly, but file/open_file
	// matches a longer exact substring and must win.
	cmd := p.Parse("open file notes.md")
	if cmd.Category != entity.CategoryFile || cmd.Intent != "open_file" {
		t.Errorf("got %s/%s, want file/open_file", cmd.Category, cmd.Intent)
	}

	cmd = p.Parse("open website example.org")
	if cmd.Category != entity.CategoryWeb || cmd.Intent != "open_website" {
		t.Errorf("got %s/%s, want web/open_website", cmd.Category, cmd.Intent)
	}
}

func TestBetterOrdering(t *testing.T) {
	a := intentMatch{score: 0.9, substrLen: 4, declIndex: 5}
	b := intentMatch{score: 0.8, substrLen: 10, declIndex: 0}
	if !better(a, b) {
		t.Error("higher score must win regardless of substring length")
	}

	c := intentMatch{score: 0.9, substrLen: 10, declIndex: 5}
	if !better(c, a) {
		t.Error("equal score: longer substring must win")
	}

	d := intentMatch{score: 0.9, substrLen: 4, declIndex: 0}
	if !better(d, a) {
		t.Error("equal score and substring: earlier declaration must win")
	}
	if better(a, d) {
		t.Error("later declaration must not win a full tie")
	}
}
