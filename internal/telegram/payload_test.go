package telegram

import "testing"

func TestParseCallback_QueueActions(t *testing.T) {
	tests := []struct {
		payload string
		want    CallbackData
	}{
		{joinCallback("abc123"), CallbackData{Scope: ScopeQueue, QueueID: "abc123", Action: "join"}},
		{leaveCallback("abc123"), CallbackData{Scope: ScopeQueue, QueueID: "abc123", Action: "leave"}},
		{swapRequestCallback("abc123", 42), CallbackData{Scope: ScopeQueue, QueueID: "abc123", Action: "swap", Sub: "request", Arg: "42"}},
		{swapAcceptCallback("abc123", "s1"), CallbackData{Scope: ScopeQueue, QueueID: "abc123", Action: "swap", Sub: "accept", Arg: "s1"}},
		{swapDeclineCallback("abc123", "s1"), CallbackData{Scope: ScopeQueue, QueueID: "abc123", Action: "swap", Sub: "decline", Arg: "s1"}},
	}

	for _, tt := range tests {
		got, err := ParseCallback(tt.payload)
		if err != nil {
			t.Fatalf("ParseCallback(%q) failed: %v", tt.payload, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCallback(%q) = %+v, want %+v", tt.payload, got, tt.want)
		}
	}
}

func TestParseCallback_MenuActions(t *testing.T) {
	tests := []struct {
		payload string
		want    CallbackData
	}{
		{queueMenuCallback("abc123", "refresh"), CallbackData{Scope: ScopeQueueMenu, QueueID: "abc123", Action: "refresh"}},
		{queueMenuCallback("abc123", "back"), CallbackData{Scope: ScopeQueueMenu, QueueID: "abc123", Action: "back"}},
		{queuesMenuCallback("abc123", "get"), CallbackData{Scope: ScopeQueuesMenu, QueueID: "abc123", Action: "get"}},
		{queuesMenuCallback(AllQueues, "hide"), CallbackData{Scope: ScopeQueuesMenu, QueueID: AllQueues, Action: "hide"}},
		{queuesMenuCallback(AllQueues, "delete"), CallbackData{Scope: ScopeQueuesMenu, QueueID: AllQueues, Action: "delete"}},
	}

	for _, tt := range tests {
		got, err := ParseCallback(tt.payload)
		if err != nil {
			t.Fatalf("ParseCallback(%q) failed: %v", tt.payload, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCallback(%q) = %+v, want %+v", tt.payload, got, tt.want)
		}
	}
}

func TestParseCallback_Malformed(t *testing.T) {
	payloads := []string{
		"",
		"queue",
		"queue|abc123",
		"queue|abc123|explode",
		"queue|abc123|swap|request",
		"queue|abc123|swap|maybe|42",
		"menu|abc123|get",
		"menu|queue|abc123|explode",
		"menu|queues|abc123|explode",
		"unknown|abc123|join|",
	}

	for _, payload := range payloads {
		if _, err := ParseCallback(payload); err == nil {
			t.Fatalf("ParseCallback(%q) accepted a malformed payload", payload)
		}
	}
}
