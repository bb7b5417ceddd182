package classifier

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"hermes/pkg/errors"
)

// wordPieceTokenizer implements uncased BERT tokenization: basic
// lower-casing, accent stripping and punctuation splitting, followed
// by greedy longest-match WordPiece against the model vocabulary.
type wordPieceTokenizer struct {
	vocab map[string]int64
	padID int64
	unkID int64
	clsID int64
	sepID int64
}

// Words longer than this are mapped to [UNK] without piece search,
// matching the reference tokenizer.
const maxWordChars = 100

// loadWordPieceTokenizer reads a BERT vocab.txt, one token per line,
// line number = token id.
func loadWordPieceTokenizer(vocabPath string) (*wordPieceTokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open vocabulary")
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	idx := int64(0)
	for scanner.Scan() {
		vocab[strings.TrimSpace(scanner.Text())] = idx
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read vocabulary")
	}

	return newWordPieceTokenizer(vocab)
}

func newWordPieceTokenizer(vocab map[string]int64) (*wordPieceTokenizer, error) {
	t := &wordPieceTokenizer{vocab: vocab}

	specials := []struct {
		token string
		id    *int64
	}{
		{"[PAD]", &t.padID},
		{"[UNK]", &t.unkID},
		{"[CLS]", &t.clsID},
		{"[SEP]", &t.sepID},
	}
	for _, s := range specials {
		id, ok := vocab[s.token]
		if !ok {
			return nil, errors.Newf("vocabulary is missing %s", s.token)
		}
		*s.id = id
	}
	return t, nil
}

// Encode produces [CLS] piece-ids [SEP], truncated to maxLen total
func (t *wordPieceTokenizer) Encode(text string, maxLen int) []int64 {
	ids := make([]int64, 0, maxLen)
	ids = append(ids, t.clsID)
	for _, word := range basicTokenize(text) {
		if len(ids) >= maxLen-1 {
			break
		}
		for _, id := range t.wordPiece(word) {
			if len(ids) >= maxLen-1 {
				break
			}
			ids = append(ids, id)
		}
	}
	return append(ids, t.sepID)
}

// wordPiece splits one word into vocabulary pieces, longest match
// first. Words with any unmatchable remainder collapse to [UNK].
func (t *wordPieceTokenizer) wordPiece(word string) []int64 {
	runes := []rune(word)
	if len(runes) > maxWordChars {
		return []int64{t.unkID}
	}

	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		var match int64
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				match = id
				found = true
				break
			}
			end--
		}
		if !found {
			return []int64{t.unkID}
		}
		pieces = append(pieces, match)
		start = end
	}
	return pieces
}

// basicTokenize lower-cases, strips accents and isolates punctuation,
// matching the uncased preprocessing the model was trained with
func basicTokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(strings.ToLower(text)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining marks dropped by accent stripping
		case isPunct(r):
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// isPunct mirrors BERT's punctuation test: the four ASCII symbol
// ranges plus anything in the Unicode P categories
func isPunct(r rune) bool {
	if (r >= '!' && r <= '/') || (r >= ':' && r <= '@') || (r >= '[' && r <= '`') || (r >= '{' && r <= '~') {
		return true
	}
	return unicode.IsPunct(r)
}
