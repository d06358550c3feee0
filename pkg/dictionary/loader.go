package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/unicode/norm"
)

// LoadFile loads a text or binary dictionary into d, picking the format from the file.
// It returns the number of entries read.
func (d *Dictionary) LoadFile(path string) (int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	var n int
	switch format {
	case FormatBinary:
		n, err = d.LoadBinary(file)
	default:
		n, err = d.LoadText(file)
	}
	if err != nil {
		return n, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	log.Debugf("Loaded %d entries from %s (%s)", n, path, format)
	return n, nil
}

// LoadText reads "word [tag] [freq]" lines. Blank lines and lines starting with # are
// skipped. Words are stored in NFC form.
func (d *Dictionary) LoadText(r io.Reader) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	scanner := bufio.NewScanner(r)
	count := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, entry, err := parseLine(line)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		d.insertLocked(word, entry)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}

func parseLine(line string) (string, Entry, error) {
	fields := strings.Fields(line)
	word := norm.NFC.String(fields[0])
	entry := Entry{Freq: 1}
	for _, f := range fields[1:] {
		if n, err := strconv.Atoi(f); err == nil {
			if n < 0 {
				return "", Entry{}, fmt.Errorf("negative frequency %d for %q", n, word)
			}
			entry.Freq = n
			continue
		}
		if entry.Tag != "" {
			return "", Entry{}, fmt.Errorf("unexpected field %q for %q", f, word)
		}
		entry.Tag = f
	}
	return word, entry, nil
}

// LoadBinary reads the ranked binary layout: an int32 word count, then per word a uint16
// byte length, the word and a uint16 rank. Rank 1 maps to the highest frequency.
func (d *Dictionary) LoadBinary(r io.Reader) (int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxBinaryWords {
		return 0, fmt.Errorf("invalid word count %d", totalEntries)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return count, fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}
		// rank 1 becomes 65535, rank 2 becomes 65534, etc.
		score := 65535 - int(rank) + 1
		d.insertLocked(norm.NFC.String(string(wordBytes)), Entry{Freq: score})
		count++
	}
	if count < int(totalEntries) {
		log.Warnf("Binary dictionary truncated: header says %d words, read %d", totalEntries, count)
	}
	return count, nil
}

// WriteBinary writes words in the ranked binary layout, ranking them by position.
func WriteBinary(w io.Writer, words []string) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	ranks := utils.CreateRankList(len(words))
	for i, word := range words {
		if len(word) > 0xFFFF {
			return fmt.Errorf("word %d too long: %d bytes", i, len(word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteText writes entries as "word tag freq" lines, in the given order.
func (d *Dictionary) WriteText(w io.Writer, words []string) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		e, ok := d.Lookup(word)
		if !ok {
			continue
		}
		tag := e.Tag
		if tag == "" {
			tag = "n"
		}
		if _, err := fmt.Fprintf(bw, "%s %s %d\n", word, tag, e.Freq); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Words returns every stored word in trie order.
func (d *Dictionary) Words() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	words := make([]string, 0, d.count)
	_ = d.trie.Visit(func(prefix patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(prefix))
		return nil
	})
	return words
}

// RankedWords returns every word by descending frequency, ties broken by word. This is the
// order WriteBinary expects.
func (d *Dictionary) RankedWords() []string {
	words := d.Words()
	freq := make(map[string]int, len(words))
	for _, w := range words {
		e, _ := d.Lookup(w)
		freq[w] = e.Freq
	}
	sort.SliceStable(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	return words
}
