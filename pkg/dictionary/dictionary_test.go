package dictionary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestBuiltinLexicon(t *testing.T) {
	d, err := Builtin(4)
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 300)
	assert.Equal(t, 4, d.Window())

	testCases := []struct {
		word string
		tag  string
	}{
		{"北京", "ns"},
		{"欢迎", "v"},
		{"你", "r"},
		{"汤姆", "nh"},
		{"北京大学", "ni"},
		{"的", "u"},
	}
	for _, tc := range testCases {
		e, ok := d.Lookup(tc.word)
		require.True(t, ok, tc.word)
		assert.Equal(t, tc.tag, e.Tag, tc.word)
		assert.Positive(t, e.Freq, tc.word)
	}

	_, ok := d.Lookup("欢迎你")
	assert.False(t, ok)
}

func TestLongestMatch(t *testing.T) {
	d := New(4)
	d.Insert("北京", Entry{Tag: "ns", Freq: 10})
	d.Insert("北京大学", Entry{Tag: "ni", Freq: 10})
	d.Insert("欢迎", Entry{Tag: "v", Freq: 10})

	runes := []rune("北京大学欢迎你")
	assert.Equal(t, 4, d.LongestMatch(runes, 0))
	assert.Equal(t, 0, d.LongestMatch(runes, 1))
	assert.Equal(t, 2, d.LongestMatch(runes, 4))
	assert.Equal(t, 0, d.LongestMatch(runes, 6))
	assert.Equal(t, 0, d.LongestMatch(runes, 7))
	assert.Equal(t, 0, d.LongestMatch(runes, -1))
}

func TestWindowBoundsMatching(t *testing.T) {
	d := New(4)
	d.Insert("哈尔滨工业大学", Entry{Tag: "ni", Freq: 10})
	d.Insert("哈尔滨", Entry{Tag: "ns", Freq: 10})

	runes := []rune("哈尔滨工业大学")
	assert.Equal(t, 3, d.LongestMatch(runes, 0))

	_, err := d.Add(nil, "", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, d.Window())
	assert.Equal(t, 7, d.LongestMatch(runes, 0))

	// a smaller window never shrinks the current one
	_, err = d.Add(nil, "", 2)
	require.NoError(t, err)
	assert.Equal(t, 7, d.Window())
	assert.Equal(t, 7, d.MaxWordLen())
}

func TestAdd(t *testing.T) {
	d := New(4)
	d.Insert("欢迎", Entry{Tag: "v", Freq: 10})

	n, err := d.Add([]string{"欢迎你", "欢迎", ""}, "", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, d.Len())

	e, ok := d.Lookup("欢迎你")
	require.True(t, ok)
	assert.Equal(t, TagCustom, e.Tag)
	assert.Equal(t, FreqCustom, e.Freq)

	e, _ = d.Lookup("欢迎")
	assert.Equal(t, "v", e.Tag)
	assert.Equal(t, FreqCustom, e.Freq)

	_, err = d.Add([]string{"x"}, "", 0)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
	_, ok = d.Lookup("x")
	assert.False(t, ok)
}

func TestInsertKeepsTagForUntaggedEntry(t *testing.T) {
	d := New(4)
	d.Insert("北京", Entry{Tag: "ns", Freq: 1})
	d.Insert("北京", Entry{Freq: 99})

	e, ok := d.Lookup("北京")
	require.True(t, ok)
	assert.Equal(t, "ns", e.Tag)
	assert.Equal(t, 99, e.Freq)
	assert.Equal(t, 1, d.Len())
}

func TestLoadText(t *testing.T) {
	src := `
# comment
自然语言 nz 50
处理 v
分词器 12
`
	d := New(4)
	n, err := d.LoadText(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	e, _ := d.Lookup("自然语言")
	assert.Equal(t, Entry{Tag: "nz", Freq: 50}, e)
	e, _ = d.Lookup("处理")
	assert.Equal(t, Entry{Tag: "v", Freq: 1}, e)
	e, _ = d.Lookup("分词器")
	assert.Equal(t, Entry{Freq: 12}, e)

	_, err = New(4).LoadText(strings.NewReader("词 n v\n"))
	assert.Error(t, err)
	_, err = New(4).LoadText(strings.NewReader("词 -3\n"))
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	words := []string{"北京", "欢迎", "你"}
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, words))

	d := New(4)
	n, err := d.LoadBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	e, ok := d.Lookup("北京")
	require.True(t, ok)
	assert.Equal(t, 65535, e.Freq)
	e, _ = d.Lookup("你")
	assert.Equal(t, 65533, e.Freq)
}

func TestLoadBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, []string{"北京", "欢迎"}))
	data := buf.Bytes()[:buf.Len()-3]

	_, err := New(4).LoadBinary(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestLoadFileAndDetectFormat(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "custom.dict")
	require.NoError(t, os.WriteFile(textPath, []byte("欢迎你 v 5\n"), 0644))
	binPath := filepath.Join(dir, "custom.bin")
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, []string{"汤姆去"}))
	require.NoError(t, os.WriteFile(binPath, buf.Bytes(), 0644))
	badPath := filepath.Join(dir, "custom.csv")
	require.NoError(t, os.WriteFile(badPath, []byte("a,b"), 0644))

	format, err := DetectFileFormat(textPath)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)
	format, err = DetectFileFormat(binPath)
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, format)
	_, err = DetectFileFormat(badPath)
	assert.Error(t, err)

	d := New(4)
	n, err := d.LoadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = d.LoadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ElementsMatch(t, []string{"欢迎你", "汤姆去"}, d.Words())

	_, err = d.LoadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	d := New(4)
	d.Insert("北京", Entry{Tag: "ns", Freq: 3})
	d.Insert("某词", Entry{Freq: 1})

	var buf bytes.Buffer
	require.NoError(t, d.WriteText(&buf, []string{"北京", "某词", "缺失"}))
	assert.Equal(t, "北京 ns 3\n某词 n 1\n", buf.String())
}

func TestRankedWords(t *testing.T) {
	d := New(4)
	d.Insert("乙", Entry{Tag: "n", Freq: 10})
	d.Insert("甲", Entry{Tag: "n", Freq: 10})
	d.Insert("丙", Entry{Tag: "n", Freq: 99})
	d.Insert("丁", Entry{Tag: "n", Freq: 1})
	assert.Equal(t, []string{"丙", "乙", "甲", "丁"}, d.RankedWords())

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, d.RankedWords()))
	back := New(4)
	_, err := back.LoadBinary(&buf)
	require.NoError(t, err)
	top, _ := back.Lookup("丙")
	last, _ := back.Lookup("丁")
	assert.Greater(t, top.Freq, last.Freq)
}

func TestConcurrentAddAndMatch(t *testing.T) {
	d, err := Builtin(4)
	require.NoError(t, err)
	runes := []rune("北京欢迎你")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.Add([]string{"欢迎你"}, "", 4)
		}()
		go func() {
			defer wg.Done()
			_ = d.View(func(v View) error {
				n := v.LongestMatch(runes, 2)
				assert.True(t, n == 2 || n == 3)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, d.LongestMatch(runes, 2))
}
