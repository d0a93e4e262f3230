package telegram

import (
	"strings"
	"testing"

	"github.com/Kerhoff/QueueboT/internal/models"
)

func testQueue(names ...string) *models.Queue {
	q := &models.Queue{ID: "q1", Name: "Duty"}
	for i, name := range names {
		id := int64(i + 1)
		q.Members = append(q.Members, models.Member{UserID: &id, DisplayName: name})
	}
	return q
}

func TestRenderQueue_Empty(t *testing.T) {
	text := RenderQueue(testQueue())

	if !strings.Contains(text, "`Duty`") {
		t.Fatalf("expected monospace queue name, got %q", text)
	}
	if !strings.Contains(text, emptyQueueLine) {
		t.Fatalf("expected empty-queue line, got %q", text)
	}
}

func TestRenderQueue_NumbersMembers(t *testing.T) {
	text := RenderQueue(testQueue("Alice", "Bob"))

	if !strings.Contains(text, "1. Alice") || !strings.Contains(text, "2. Bob") {
		t.Fatalf("expected numbered members, got %q", text)
	}
}

func TestRenderQueue_EscapesMarkdown(t *testing.T) {
	q := testQueue("mr_underscore", "star*man")
	q.Description = "use `backticks` wisely"

	text := RenderQueue(q)

	for _, want := range []string{`mr\_underscore`, `star\*man`, "use \\`backticks\\` wisely"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected escaped %q in %q", want, text)
		}
	}
}

func TestRenderQueueList_SortsNames(t *testing.T) {
	chat := &models.Chat{
		ChatID: 1,
		Queues: map[string]*models.Queue{
			"b": {ID: "b", Name: "Zeta"},
			"a": {ID: "a", Name: "Alpha"},
		},
	}

	text := RenderQueueList(chat)
	if strings.Index(text, "Alpha") > strings.Index(text, "Zeta") {
		t.Fatalf("expected alphabetical order, got %q", text)
	}
}

func TestSwapTargetKeyboard_SkipsRequesterAndPlaceholders(t *testing.T) {
	q := testQueue("Alice", "Bob")
	q.Members = append(q.Members, models.Member{DisplayName: "Ghost"})

	kb := SwapTargetKeyboard(q, 1)

	// Bob plus the Back/Hide row; Alice is the requester and Ghost has
	// no user id to address.
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][0].Text != "Bob" {
		t.Fatalf("expected Bob as the only target, got %q", kb.InlineKeyboard[0][0].Text)
	}
}

func TestQueueListKeyboard_OneButtonPerQueue(t *testing.T) {
	chat := &models.Chat{
		ChatID: 1,
		Queues: map[string]*models.Queue{
			"a": {ID: "a", Name: "Alpha"},
			"b": {ID: "b", Name: "Beta"},
		},
	}

	kb := QueueListKeyboard(chat)
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("expected 2 queue rows plus Hide, got %d", len(kb.InlineKeyboard))
	}

	data := kb.InlineKeyboard[0][0].CallbackData
	if data == nil {
		t.Fatal("expected callback data on queue button")
	}
	parsed, err := ParseCallback(*data)
	if err != nil {
		t.Fatalf("queue button produced unparseable payload: %v", err)
	}
	if parsed.Scope != ScopeQueuesMenu || parsed.Action != "get" {
		t.Fatalf("expected queues-menu get payload, got %+v", parsed)
	}
}
