// Package wordlist loads question/answer word lists from files.
package wordlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/model"
)

const (
	// DefaultTemplate is the question template when a list sets none.
	DefaultTemplate = `What is ""?`
	// DefaultBins is the bin count when a list sets none.
	DefaultBins = 4

	pairSeparator = ", "
)

// Entry is one question/answer line of a list.
type Entry struct {
	Question string
	Answer   string
	Line     int
}

// List is a parsed word list.
type List struct {
	Question1   string
	Question2   string
	Description string
	Bins        int
	AskBothWays bool
	Encoding    string
	Entries     []Entry
	ContentHash string
}

// Option configures parsing.
type Option func(*parser)

// WithLogger sets the logger that receives warnings for skipped lines.
func WithLogger(l *zap.Logger) Option {
	return func(p *parser) { p.log = l }
}

type parser struct {
	log       *zap.Logger
	list      *List
	questions map[string]struct{}
	answers   map[string]struct{}
}

// Load reads a word list from the provided file path.
func Load(path string, opts ...Option) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	list, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return list, nil
}

// Parse reads a word list.
//
// Blank lines are ignored. Lines starting with '#' are comments, or
// directives of the form #key=value. Other lines hold a question and an
// answer separated by the first ", ". Lines with a missing separator or a
// question or answer seen before are skipped with a warning.
func Parse(r io.Reader, opts ...Option) (*List, error) {
	p := &parser{
		log: zap.NewNop(),
		list: &List{
			Question1:   DefaultTemplate,
			Question2:   DefaultTemplate,
			Bins:        DefaultBins,
			AskBothWays: true,
		},
		questions: map[string]struct{}{},
		answers:   map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(p)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	name := sniffEncoding(raw)
	text, err := decode(raw, name)
	if err != nil {
		p.log.Warn("unsupported encoding, reading as UTF-8", zap.String("encoding", name), zap.Error(err))
		text = string(raw)
	}
	p.list.Encoding = name

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		p.line(scanner.Text(), lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(p.list.Entries) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	p.list.ContentHash = ContentHash(text)
	return p.list, nil
}

func (p *parser) line(line string, lineNo int) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if line[0] == '#' {
		p.directive(line, lineNo)
		return
	}
	pos := strings.Index(line, pairSeparator)
	if pos < 0 {
		p.log.Warn("syntax error, comma expected; line ignored", zap.Int("line", lineNo))
		return
	}
	question := strings.TrimSpace(line[:pos])
	answer := strings.TrimSpace(line[pos+len(pairSeparator):])
	if _, ok := p.questions[question]; ok {
		p.log.Warn("duplicate question; line ignored", zap.String("question", question), zap.Int("line", lineNo))
		return
	}
	p.questions[question] = struct{}{}
	if _, ok := p.answers[answer]; ok {
		p.log.Warn("duplicate answer; line ignored", zap.String("answer", answer), zap.Int("line", lineNo))
		return
	}
	p.answers[answer] = struct{}{}
	p.list.Entries = append(p.list.Entries, Entry{Question: question, Answer: answer, Line: lineNo})
}

func (p *parser) directive(line string, lineNo int) {
	key, value, ok := splitDirective(line)
	if !ok {
		return
	}
	switch key {
	case "question1":
		p.list.Question1 = value
	case "question2":
		p.list.Question2 = value
	case "description":
		p.list.Description = value
	case "bins":
		n, err := strconv.Atoi(value)
		if err != nil {
			p.log.Warn("invalid bins; directive ignored", zap.String("value", value), zap.Int("line", lineNo))
			return
		}
		p.list.Bins = n
	case "askbothways":
		n, err := strconv.Atoi(value)
		if err != nil {
			p.log.Warn("invalid askBothWays; directive ignored", zap.String("value", value), zap.Int("line", lineNo))
			return
		}
		p.list.AskBothWays = n != 0
	}
}

// splitDirective returns the lower-cased key and the value of a #key=value line.
func splitDirective(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line[1:], "=")
	if !ok {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), true
}

// sniffEncoding returns the value of the first encoding or charset directive.
func sniffEncoding(raw []byte) string {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(line) == 0 || line[0] != '#' {
			continue
		}
		key, value, ok := splitDirective(strings.TrimRight(string(line), "\r"))
		if ok && (key == "encoding" || key == "charset") {
			return value
		}
	}
	return ""
}

// Pairs expands the entries into word pairs. Every entry is asked from
// question to answer; with AskBothWays it is also asked in reverse, right
// after. Both directions share the entry index.
func (l *List) Pairs() []model.WordPair {
	size := len(l.Entries)
	if l.AskBothWays {
		size *= 2
	}
	out := make([]model.WordPair, 0, size)
	for i, e := range l.Entries {
		out = append(out, model.WordPair{Question: e.Question, Answer: e.Answer, Direction: 0, PairIndex: i})
		if l.AskBothWays {
			out = append(out, model.WordPair{Question: e.Answer, Answer: e.Question, Direction: 1, PairIndex: i})
		}
	}
	return out
}
