package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback payloads are pipe-delimited: "<scope>|<queue_id>|<action>[|<arg>...]".
// Queue ids and swap ids never contain '|', so a plain split is safe.
//
//	queue|<queue_id>|join|
//	queue|<queue_id>|leave|
//	queue|<queue_id>|swap|request|<target_user_id>
//	queue|<queue_id>|swap|accept|<swap_id>
//	queue|<queue_id>|swap|decline|<swap_id>
//	menu|queue|<queue_id>|{refresh|swap|delete|back}
//	menu|queues|<queue_id|"all">|{get|hide|delete}

// Callback scopes routed by the Router.
const (
	ScopeQueue      = "queue"
	ScopeQueueMenu  = "menu|queue"
	ScopeQueuesMenu = "menu|queues"
)

// AllQueues is the queue-id placeholder addressing every queue of a chat.
const AllQueues = "all"

// CallbackData is a parsed callback payload.
type CallbackData struct {
	Scope   string // ScopeQueue, ScopeQueueMenu or ScopeQueuesMenu
	QueueID string // queue id, or AllQueues in the queues-menu scope
	Action  string // join, leave, swap, refresh, delete, back, get, hide
	Sub     string // swap only: request, accept, decline
	Arg     string // swap only: target user id or swap id
}

// ParseCallback decodes a callback payload. Malformed payloads (stale
// buttons, truncated data) yield an error; callers log and ignore them.
func ParseCallback(data string) (CallbackData, error) {
	parts := strings.Split(data, "|")
	if len(parts) < 3 {
		return CallbackData{}, fmt.Errorf("malformed callback payload %q", data)
	}

	switch parts[0] {
	case "queue":
		cd := CallbackData{Scope: ScopeQueue, QueueID: parts[1], Action: parts[2]}
		switch cd.Action {
		case "join", "leave":
			return cd, nil
		case "swap":
			if len(parts) < 5 {
				return CallbackData{}, fmt.Errorf("malformed swap payload %q", data)
			}
			cd.Sub, cd.Arg = parts[3], parts[4]
			switch cd.Sub {
			case "request", "accept", "decline":
				return cd, nil
			}
		}
	case "menu":
		if len(parts) < 4 {
			return CallbackData{}, fmt.Errorf("malformed menu payload %q", data)
		}
		switch parts[1] {
		case "queue":
			cd := CallbackData{Scope: ScopeQueueMenu, QueueID: parts[2], Action: parts[3]}
			switch cd.Action {
			case "refresh", "swap", "delete", "back":
				return cd, nil
			}
		case "queues":
			cd := CallbackData{Scope: ScopeQueuesMenu, QueueID: parts[2], Action: parts[3]}
			switch cd.Action {
			case "get", "hide", "delete":
				return cd, nil
			}
		}
	}
	return CallbackData{}, fmt.Errorf("unknown callback payload %q", data)
}

func joinCallback(queueID string) string  { return "queue|" + queueID + "|join|" }
func leaveCallback(queueID string) string { return "queue|" + queueID + "|leave|" }

func swapRequestCallback(queueID string, targetID int64) string {
	return "queue|" + queueID + "|swap|request|" + strconv.FormatInt(targetID, 10)
}

func swapAcceptCallback(queueID, swapID string) string {
	return "queue|" + queueID + "|swap|accept|" + swapID
}

func swapDeclineCallback(queueID, swapID string) string {
	return "queue|" + queueID + "|swap|decline|" + swapID
}

func queueMenuCallback(queueID, action string) string {
	return "menu|queue|" + queueID + "|" + action
}

func queuesMenuCallback(queueID, action string) string {
	return "menu|queues|" + queueID + "|" + action
}
