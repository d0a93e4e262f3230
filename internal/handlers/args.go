package handlers

import (
	"strconv"
	"strings"
	"time"
)

// defaultQueueName is used when /create is issued without a name.
const defaultQueueName = "Queue"

// parseCreateArgs extracts the queue name and TTL from /create arguments.
// The -h flag accepts both split ("-h 12") and joined ("-h12") forms and
// must be a positive integer number of hours; ok is false otherwise.
func parseCreateArgs(args []string) (name string, ttl time.Duration, ok bool) {
	ttl = 24 * time.Hour
	var nameParts []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var raw string
		switch {
		case arg == "-h":
			if i+1 >= len(args) {
				return "", 0, false
			}
			i++
			raw = args[i]
		case strings.HasPrefix(arg, "-h"):
			raw = arg[2:]
		default:
			nameParts = append(nameParts, arg)
			continue
		}
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return "", 0, false
		}
		ttl = time.Duration(hours) * time.Hour
	}

	name = strings.Join(nameParts, " ")
	if name == "" {
		name = defaultQueueName
	}
	return name, ttl, true
}

// matchQueueName finds the existing queue whose name is the longest
// prefix of the argument tokens, returning the name and the remaining
// tokens. Queue names may contain spaces, so "/insert My Queue Bob 2"
// resolves against the actual queue set.
func matchQueueName(names []string, args []string) (queueName string, rest []string, ok bool) {
	best := -1
	for _, name := range names {
		tokens := strings.Fields(name)
		if len(tokens) == 0 || len(tokens) > len(args) {
			continue
		}
		if strings.Join(args[:len(tokens)], " ") == name && len(tokens) > best {
			best = len(tokens)
			queueName = name
		}
	}
	if best < 0 {
		return "", nil, false
	}
	return queueName, args[best:], true
}

// trailingInt splits an optional trailing integer off the argument list.
func trailingInt(args []string) (*int, []string) {
	if len(args) == 0 {
		return nil, args
	}
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
		return &n, args[:len(args)-1]
	}
	return nil, args
}
