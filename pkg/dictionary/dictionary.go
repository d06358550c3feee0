/*
Package dictionary holds the word list used for segmentation and tagging.

Words live in a patricia trie keyed by their UTF-8 bytes. Matching is bounded by a window
measured in runes: a word longer than the current window is stored but never matched. The
window only grows, through Add.
*/
package dictionary

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

const (
	// TagCustom is the tag given to words added at runtime without a known tag.
	TagCustom = "nz"
	// FreqCustom is the frequency given to words added at runtime.
	FreqCustom = 1000
)

// ErrInvalidWindow is returned by Add for a non-positive window.
var ErrInvalidWindow = errors.New("window must be positive")

// Entry is what the dictionary knows about a word.
type Entry struct {
	Tag  string
	Freq int
}

// Dictionary is safe for concurrent use.
type Dictionary struct {
	trie   *patricia.Trie
	window int
	count  int
	maxLen int
	mu     sync.RWMutex
}

// New creates an empty dictionary with the given matching window.
func New(window int) *Dictionary {
	if window <= 0 {
		window = 1
	}
	return &Dictionary{
		trie:   patricia.NewTrie(),
		window: window,
	}
}

// Insert stores or replaces a word. An entry without a tag keeps the previous tag.
// It does not change the window.
func (d *Dictionary) Insert(word string, e Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertLocked(word, e)
}

func (d *Dictionary) insertLocked(word string, e Entry) {
	if word == "" {
		return
	}
	key := patricia.Prefix(word)
	if d.trie.Insert(key, e) {
		d.count++
	} else {
		// an untagged entry keeps the tag already known for the word
		if e.Tag == "" {
			e.Tag = d.trie.Get(key).(Entry).Tag
		}
		d.trie.Set(key, e)
	}
	if n := utf8.RuneCountInString(word); n > d.maxLen {
		d.maxLen = n
	}
}

// Add inserts words under one write lock and widens the window to maxWindow when it is
// larger. Words already present keep their tag. It returns the number of new words.
func (d *Dictionary) Add(words []string, tag string, maxWindow int) (int, error) {
	if maxWindow <= 0 {
		return 0, ErrInvalidWindow
	}
	if tag == "" {
		tag = TagCustom
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	added := 0
	for _, w := range words {
		if w == "" {
			continue
		}
		if item := d.trie.Get(patricia.Prefix(w)); item != nil {
			e := item.(Entry)
			if e.Freq < FreqCustom {
				e.Freq = FreqCustom
				d.trie.Set(patricia.Prefix(w), e)
			}
			continue
		}
		d.insertLocked(w, Entry{Tag: tag, Freq: FreqCustom})
		added++
	}
	if maxWindow > d.window {
		log.Debugf("Dictionary window widened from %d to %d", d.window, maxWindow)
		d.window = maxWindow
	}
	return added, nil
}

// Window returns the current matching window in runes.
func (d *Dictionary) Window() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window
}

// Len returns the number of stored words.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.count
}

// MaxWordLen returns the length in runes of the longest stored word.
func (d *Dictionary) MaxWordLen() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.maxLen
}

// Lookup returns the entry of word.
func (d *Dictionary) Lookup(word string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return View{d}.Lookup(word)
}

// LongestMatch returns the rune length of the longest word starting at runes[i], or 0.
func (d *Dictionary) LongestMatch(runes []rune, i int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return View{d}.LongestMatch(runes, i)
}

// View runs fn with the read lock held, so every lookup made through v sees the same
// dictionary state. v must not be used after fn returns.
func (d *Dictionary) View(fn func(v View) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(View{d})
}

// View is a read-only handle valid inside Dictionary.View.
type View struct {
	d *Dictionary
}

// Window returns the matching window.
func (v View) Window() int {
	return v.d.window
}

// Lookup returns the entry of word.
func (v View) Lookup(word string) (Entry, bool) {
	item := v.d.trie.Get(patricia.Prefix(word))
	if item == nil {
		return Entry{}, false
	}
	return item.(Entry), true
}

// LongestMatch returns the rune length of the longest word starting at runes[i] and no
// longer than the window, or 0.
func (v View) LongestMatch(runes []rune, i int) int {
	if i < 0 || i >= len(runes) {
		return 0
	}
	end := i + v.d.window
	if end > len(runes) {
		end = len(runes)
	}
	key := string(runes[i:end])
	best := 0
	_ = v.d.trie.VisitPrefixes(patricia.Prefix(key), func(prefix patricia.Prefix, _ patricia.Item) error {
		if n := utf8.RuneCount(prefix); n > best {
			best = n
		}
		return nil
	})
	return best
}
