package markup

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	timecodePattern = regexp.MustCompile(`^(\d{2}):(\d{2})\.(\d{2})$`)
	tagPattern      = regexp.MustCompile(`^([a-z]+):(.*)$`)
)

// ParseError reports malformed markup.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lyrics parse error at %d: %s", e.Pos, e.Msg)
}

// ReferenceError reports a word that has no voice to belong to.
type ReferenceError struct {
	Pos int
	Msg string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("lyrics reference error at %d: %s", e.Pos, e.Msg)
}

type pendingWord struct {
	timed bool
	time  float64
	text  strings.Builder
}

type scanner struct {
	cards   []Card
	card    Card
	started bool
	word    pendingWord
	voice   string
}

// Parse converts timecoded lyrics markup into a Document.
func Parse(text string) (*Document, error) {
	s := &scanner{}
	escaped := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if escaped {
			s.word.text.WriteRune(r)
			escaped = false
			i += size
			continue
		}

		switch r {
		case '\n':
		case '\r':
			if i+1 >= len(text) || text[i+1] != '\n' {
				s.word.text.WriteRune(r)
			}
		case '\\':
			escaped = true
		case '[', '<':
			cardTag := r == '['
			closer := byte('>')
			if cardTag {
				closer = ']'
			}
			end := strings.IndexByte(text[i+1:], closer)
			if end < 0 {
				return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("expected %q, reached end of input", closer)}
			}
			body := text[i+1 : i+1+end]
			if err := s.tag(i, body, cardTag); err != nil {
				return nil, err
			}
			i += end + 2
			continue
		default:
			s.word.text.WriteRune(r)
		}
		i += size
	}

	if s.started {
		s.cards = append(s.cards, s.card)
	}

	for ci := range s.cards {
		for vi := range s.cards[ci].Voices {
			words := s.cards[ci].Voices[vi].Words
			sort.SliceStable(words, func(a, b int) bool { return words[a].Time < words[b].Time })
		}
	}
	sort.SliceStable(s.cards, func(a, b int) bool { return s.cards[a].Time < s.cards[b].Time })

	return &Document{Cards: s.cards}, nil
}

func (s *scanner) tag(pos int, body string, cardTag bool) error {
	if m := timecodePattern.FindStringSubmatch(body); m != nil {
		if !cardTag && s.voice == "" {
			return &ReferenceError{Pos: pos, Msg: fmt.Sprintf("word timecode <%s> before any voice tag", body)}
		}
		if err := s.flushWord(pos); err != nil {
			return err
		}
		t := parseTimecode(m)
		s.word = pendingWord{timed: true, time: t}
		if cardTag {
			if s.started {
				s.cards = append(s.cards, s.card)
			}
			s.card = Card{Time: t}
			s.started = true
		}
		return nil
	}

	m := tagPattern.FindStringSubmatch(body)
	if m == nil {
		return &ParseError{Pos: pos, Msg: fmt.Sprintf("malformed tag %q", body)}
	}
	if !cardTag {
		return nil
	}
	switch m[1] {
	case "voice":
		if err := s.flushWord(pos); err != nil {
			return err
		}
		s.word = pendingWord{}
		s.voice = m[2]
		s.card.ensureVoice(s.voice)
	default:
		// unknown card tags are reserved for future use
	}
	return nil
}

// flushWord appends the pending word to the current voice when it is timed
// and has text.
func (s *scanner) flushWord(pos int) error {
	if !s.word.timed || s.word.text.Len() == 0 {
		return nil
	}
	text := s.word.text.String()
	if s.voice == "" {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return &ReferenceError{Pos: pos, Msg: fmt.Sprintf("text %q has no voice", text)}
	}
	v := s.card.ensureVoice(s.voice)
	v.Words = append(v.Words, Word{Time: s.word.time, Text: text})
	return nil
}

func parseTimecode(m []string) float64 {
	mm, _ := strconv.Atoi(m[1])
	ss, _ := strconv.Atoi(m[2])
	cc, _ := strconv.Atoi(m[3])
	return float64(mm*60+ss) + float64(cc)/100
}
