/*
Package server implements msgpack IPC for lexicon queries.

Clients write a stream of msgpack maps to stdin and read one response map per
request from stdout. Messages are not framed: msgpack values are self delimiting.
The first value the server writes is a status message:

	{"id": "", "status": "ready"}

# Requests

Every request carries an ID that is echoed back. The command field picks the
operation and defaults to "query":

	{"id": "q1", "q": "ca*", "l": 20}
	{"id": "q2", "c": "correct", "q": "cag", "d": 1, "l": 5}
	{"id": "q3", "c": "lookup", "q": "cart"}

Commands:

	query     route the input like the CLI does: wildcard, prefix, then corrections
	prefix    raw prefix search
	wildcard  raw glob search ('*' and '?')
	correct   raw edit-distance search, "d" overrides the configured distance
	lookup    exact word
	health    liveness check
	stats     lexicon and cache counters

Only "query" normalizes its input; the raw commands pass it to the lexicon verbatim.

# Responses

Query style commands answer with the entries, their count, the total number of
matches before truncation, the path that produced them and the time taken in
microseconds:

	{"id": "q1", "k": "wildcard", "r": [{"w": "cat", "m": "a feline"}], "c": 1, "n": 1, "t": 42}

Failures answer with an error message and an HTTP-like code:

	{"id": "q9", "e": "unknown command: frobnicate", "code": 400}
*/
package server

// Request is any client message
type Request struct {
	ID       string `msgpack:"id"`
	Command  string `msgpack:"c,omitempty"`
	Query    string `msgpack:"q"`
	Limit    int    `msgpack:"l,omitempty"`
	Distance *int   `msgpack:"d,omitempty"`
}

// Entry is one word with its meaning
type Entry struct {
	Word    string `msgpack:"w"`
	Meaning string `msgpack:"m"`
}

// QueryResponse answers query, prefix, wildcard and correct
type QueryResponse struct {
	ID        string  `msgpack:"id"`
	Kind      string  `msgpack:"k"`
	Results   []Entry `msgpack:"r"`
	Count     int     `msgpack:"c"`
	Total     int     `msgpack:"n"`
	TimeTaken int64   `msgpack:"t"`
}

// LookupResponse answers lookup
type LookupResponse struct {
	ID      string `msgpack:"id"`
	Word    string `msgpack:"w"`
	Meaning string `msgpack:"m,omitempty"`
	Found   bool   `msgpack:"f"`
}

// StatusResponse answers health and announces readiness
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// StatsResponse answers stats
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}
