package dto

import (
	"errors"
	"strconv"
	"strings"
)

// Hero is the domain record managed by the hero collection.
// The id is assigned by the backend on creation; two records describe
// the same hero iff their ids match.
type Hero struct {
	ID   HeroID `json:"id"`
	Name string `json:"name"`
}

// HeroID is the id of a hero. The zero value marks a hero that has not
// been created on the backend yet.
type HeroID int

// NewHeroID parses a string into a HeroID.
func NewHeroID(id string) (HeroID, error) {
	hero, err := strconv.Atoi(id)
	return HeroID(hero), err
}

// ToString parses a HeroID back to a string.
func (h HeroID) ToString() string {
	return strconv.Itoa(int(h))
}

// HeroRequest is the expected json structure of the request body for the create hero route.
type HeroRequest struct {
	Name string `json:"name"`
}

// Message is a single entry of the message journal.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// TrimTerm normalizes a search term. An empty result is the sentinel for
// "no query" and must short-circuit before reaching the network.
func TrimTerm(term string) string {
	return strings.TrimSpace(term)
}

// Formatter mirrors the available Formatters of logrus for configuration purposes.
type Formatter string

const (
	FormatterText = "TextFormatter"
	FormatterJSON = "JSONFormatter"
)

// ContextKey is the type for keys in a request context that is used for passing data to the next handler.
type ContextKey string

// Keys to reference information (for logging or monitoring).
const (
	KeyHeroID    = "hero_id"
	KeyTerm      = "term"
	KeyOperation = "operation"
)

// LoggedContextKeys are the context values that the logging hooks copy into log entries.
var LoggedContextKeys = []ContextKey{KeyHeroID, KeyTerm}

// ClientError is the response interface if the request is not valid.
type ClientError struct {
	Message string `json:"message"`
}

// InternalServerError is the response interface that is returned when an error occurs.
type InternalServerError struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"errorCode"`
}

// ErrorCode is the type for error codes reported to API consumers.
type ErrorCode string

const (
	ErrorBackendUnreachable ErrorCode = "BACKEND_UNREACHABLE"
	ErrorUnknown            ErrorCode = "UNKNOWN"
)

var (
	ErrUnknownHero  = errors.New("no hero with the requested id")
	ErrMissingName  = errors.New("name is missing")
	ErrInvalidLimit = errors.New("limit must be a non-negative integer")
)
