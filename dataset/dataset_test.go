package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Lowercases", "YOU Are Stupid", "you are stupid"},
		{"Strips URLs", "look at this https://example.com/abc now", "look at this now"},
		{"Strips www URLs", "see www.example.com please", "see please"},
		{"Strips mentions", "@bully123 leave me alone", "leave me alone"},
		{"Strips digits and punctuation", "you're #1 idiot!!!", "you re idiot"},
		{"Collapses whitespace", "too   many\t\tspaces", "too many spaces"},
		{"Empty after cleaning", "123 456 !!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestNewDropsEmptyTexts(t *testing.T) {
	d, err := New("1",
		[]string{"hello there", "12345", "another text"},
		[]int{0, 1, 1},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []int{0, 1}, d.Labels)
}

func TestNewLengthMismatch(t *testing.T) {
	_, err := New("1", []string{"a b"}, []int{0, 1})
	assert.Error(t, err)
}

func TestSplitStratified(t *testing.T) {
	texts := make([]string, 0, 100)
	labels := make([]int, 0, 100)
	for i := 0; i < 80; i++ {
		texts = append(texts, "negative sample text")
		labels = append(labels, 0)
	}
	for i := 0; i < 20; i++ {
		texts = append(texts, "positive sample text")
		labels = append(labels, 1)
	}
	d, err := New("1", texts, labels)
	require.NoError(t, err)

	train, test, err := d.Split(0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, test.Len())

	// Stratification keeps the 80/20 class balance on both sides.
	assert.Equal(t, 16, train.Describe().Positive)
	assert.Equal(t, 4, test.Describe().Positive)
}

func TestSplitDeterministic(t *testing.T) {
	texts := make([]string, 0, 40)
	labels := make([]int, 0, 40)
	for i := 0; i < 40; i++ {
		texts = append(texts, strings.Repeat("word ", i%7+1))
		labels = append(labels, i%2)
	}
	d, err := New("1", texts, labels)
	require.NoError(t, err)

	trainA, testA, err := d.Split(0.25, 42)
	require.NoError(t, err)
	trainB, testB, err := d.Split(0.25, 42)
	require.NoError(t, err)

	assert.Equal(t, trainA.Texts, trainB.Texts)
	assert.Equal(t, trainA.Labels, trainB.Labels)
	assert.Equal(t, testA.Texts, testB.Texts)
	assert.Equal(t, testA.Labels, testB.Labels)
}

func TestSplitRejectsBadFraction(t *testing.T) {
	d, err := New("1", []string{"one text", "two text"}, []int{0, 1})
	require.NoError(t, err)

	_, _, err = d.Split(0, 42)
	assert.Error(t, err)
	_, _, err = d.Split(1.0, 42)
	assert.Error(t, err)
}

func TestSubsample(t *testing.T) {
	texts := make([]string, 200)
	labels := make([]int, 200)
	for i := range texts {
		texts[i] = "sample text here"
		labels[i] = i % 2
	}
	d, err := New("1", texts, labels)
	require.NoError(t, err)

	small := d.Subsample(50, 42)
	assert.Equal(t, 50, small.Len())

	// Same seed, same subset.
	again := d.Subsample(50, 42)
	assert.Equal(t, small.Labels, again.Labels)

	// Under the cap the dataset passes through untouched.
	assert.Equal(t, 200, d.Subsample(500, 42).Len())
}

func TestCombine(t *testing.T) {
	d1, err := New("1", []string{"first corpus text"}, []int{0})
	require.NoError(t, err)
	d2, err := New("2", []string{"second corpus text", "more second text"}, []int{1, 0})
	require.NoError(t, err)

	combined := Combine("combined", d1, d2)
	assert.Equal(t, "combined", combined.ID)
	assert.Equal(t, 3, combined.Len())
	assert.Equal(t, []int{0, 1, 0}, combined.Labels)
}

func TestDescribe(t *testing.T) {
	d, err := New("1",
		[]string{"nice words", "bad words here", "awful terrible stuff", "lovely day"},
		[]int{0, 1, 1, 0},
	)
	require.NoError(t, err)

	s := d.Describe()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Positive)
	assert.Equal(t, 2, s.Negative)
	assert.InDelta(t, 0.5, s.PositiveRatio, 1e-9)
	assert.Greater(t, s.MeanLength, 0.0)
}

func TestReadCSV(t *testing.T) {
	csvData := `id,text,label
1,"You are so STUPID!",1
2,"Have a great day :)",0
3,"@troll go away http://spam.example.com",0.9
4,"12345",1
5,"not a label",oops
`
	d, err := ReadCSV("1", strings.NewReader(csvData), "text", "label")
	require.NoError(t, err)

	// Row 4 cleans to empty, row 5 has a non-numeric label; both drop.
	require.Equal(t, 3, d.Len())
	assert.Equal(t, "you are so stupid", d.Texts[0])
	// The 0.9 annotator score binarizes to the positive class.
	assert.Equal(t, []int{1, 0, 1}, d.Labels)
	assert.Equal(t, "go away", d.Texts[2])
}

func TestReadCSVMissingColumn(t *testing.T) {
	csvData := "text,score\nhello,1\n"
	_, err := ReadCSV("1", strings.NewReader(csvData), "text", "label")
	assert.Error(t, err)
}

func TestReadCSVHeaderCaseInsensitive(t *testing.T) {
	csvData := "Tweet,Label\nsome harmless text,0\n"
	d, err := ReadCSV("1", strings.NewReader(csvData), "tweet", "label")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}
