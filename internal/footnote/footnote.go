package footnote

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// keyLength is the number of uuid characters used for exchanged keys
const keyLength = 7

var (
	markerPattern     = regexp.MustCompile(`\[\^([^\]]+)\]`)
	definitionPattern = regexp.MustCompile(`^\s*\[\^([^\]]+)\]:(.*)$`)
)

// Exchange rewrites footnote keys of one source file into keys that cannot collide with
// keys of other files in the same render.
type Exchange struct {
	keys   map[string]string
	issued map[string]bool
	newKey func() string
}

// NewExchange creates an empty exchange table
func NewExchange() *Exchange {
	return &Exchange{
		keys:   make(map[string]string),
		issued: make(map[string]bool),
		newKey: func() string {
			return uuid.NewString()[:keyLength]
		},
	}
}

// Key returns the exchanged key for an original footnote label
func (e *Exchange) Key(label string) string {
	if e.issued[label] {
		return label
	}
	if key, ok := e.keys[label]; ok {
		return key
	}

	key := e.newKey()
	for e.issued[key] {
		key = e.newKey()
	}
	e.keys[label] = key
	e.issued[key] = true
	return key
}

// Rewrite replaces every footnote marker in line with its exchanged key
func (e *Exchange) Rewrite(line string) string {
	if !strings.Contains(line, "[^") {
		return line
	}
	return markerPattern.ReplaceAllStringFunc(line, func(m string) string {
		label := markerPattern.FindStringSubmatch(m)[1]
		return "[^" + e.Key(label) + "]"
	})
}

// ParseDefinition reports whether line is a footnote definition and returns its key and text
func ParseDefinition(line string) (key, text string, ok bool) {
	m := definitionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// Markers returns the keys of all footnote markers in text, in order
func Markers(text string) []string {
	var keys []string
	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		keys = append(keys, m[1])
	}
	return keys
}

// Collection stores footnote texts for one render
type Collection struct {
	notes map[string]string
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{notes: make(map[string]string)}
}

// Add stores the text for key, replacing any previous definition
func (c *Collection) Add(key, text string) {
	c.notes[key] = text
}

// Get returns the text stored for key
func (c *Collection) Get(key string) (string, bool) {
	text, ok := c.notes[key]
	return text, ok
}

// Len returns the number of stored footnotes
func (c *Collection) Len() int {
	return len(c.notes)
}

// Reset drops all stored footnotes
func (c *Collection) Reset() {
	clear(c.notes)
}
