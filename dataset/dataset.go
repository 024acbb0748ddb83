// Package dataset loads, cleans and splits the labeled text corpora the
// comparison pipeline trains on.
package dataset

import (
	"encoding/json"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// Dataset is a labeled text corpus. Texts and Labels are parallel slices;
// labels are binary, 1 for the positive (cyberbullying) class.
type Dataset struct {
	ID     string
	Texts  []string
	Labels []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Texts)
}

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern    = regexp.MustCompile(`@\w+`)
	nonLetterPattern  = regexp.MustCompile(`[^a-z\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean normalizes raw text for featurization: lowercase, URLs and
// @mentions removed, non-letter characters stripped, whitespace collapsed.
// The same function runs at training and at prediction time so both sides
// see the same token stream.
func Clean(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = nonLetterPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// New builds a Dataset from raw texts and labels, cleaning each text and
// dropping samples that clean to the empty string.
func New(id string, texts []string, labels []int) (*Dataset, error) {
	if len(texts) != len(labels) {
		return nil, errors.NewDimensionError("dataset.New", len(texts), len(labels), 0)
	}
	d := &Dataset{ID: id}
	for i, raw := range texts {
		cleaned := Clean(raw)
		if cleaned == "" {
			continue
		}
		d.Texts = append(d.Texts, cleaned)
		d.Labels = append(d.Labels, labels[i])
	}
	if d.Len() == 0 {
		return nil, errors.NewEmptyInputError("dataset.New")
	}
	return d, nil
}

// Combine concatenates datasets under a new identifier.
func Combine(id string, parts ...*Dataset) *Dataset {
	out := &Dataset{ID: id}
	for _, p := range parts {
		out.Texts = append(out.Texts, p.Texts...)
		out.Labels = append(out.Labels, p.Labels...)
	}
	return out
}

// Subsample caps the dataset at maxSamples rows, picked by a seeded shuffle
// so the same seed always selects the same subset. Datasets at or under the
// cap come back unchanged.
func (d *Dataset) Subsample(maxSamples int, seed int64) *Dataset {
	if maxSamples <= 0 || d.Len() <= maxSamples {
		return d
	}
	indices := make([]int, d.Len())
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	indices = indices[:maxSamples]

	out := &Dataset{ID: d.ID}
	for _, i := range indices {
		out.Texts = append(out.Texts, d.Texts[i])
		out.Labels = append(out.Labels, d.Labels[i])
	}
	return out
}

// Split partitions the dataset into stratified train and test sets: each
// class is shuffled with the seed and contributes its own testFraction to
// the test side, so class balance survives the split. The same seed always
// produces the same partition.
func (d *Dataset) Split(testFraction float64, seed int64) (train, test *Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValueError("dataset.Split", "test fraction must be in (0, 1)")
	}
	if d.Len() < 2 {
		return nil, nil, errors.NewValueError("dataset.Split", "need at least two samples to split")
	}

	byClass := make(map[int][]int)
	for i, label := range d.Labels {
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	train = &Dataset{ID: d.ID}
	test = &Dataset{ID: d.ID}

	// Iterate classes in sorted order so the rng consumption is stable.
	classes := lo.Keys(byClass)
	sort.Ints(classes)
	for _, cls := range classes {
		indices := byClass[cls]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(len(indices)) * testFraction)
		for k, i := range indices {
			if k < nTest {
				test.Texts = append(test.Texts, d.Texts[i])
				test.Labels = append(test.Labels, d.Labels[i])
			} else {
				train.Texts = append(train.Texts, d.Texts[i])
				train.Labels = append(train.Labels, d.Labels[i])
			}
		}
	}

	if train.Len() == 0 || test.Len() == 0 {
		return nil, nil, errors.NewValueError("dataset.Split", "split produced an empty partition")
	}
	return train, test, nil
}

// Stats summarizes a dataset for reporting.
type Stats struct {
	ID            string  `json:"dataset_id"`
	Total         int     `json:"total_samples"`
	Positive      int     `json:"cyberbullying"`
	Negative      int     `json:"not_cyberbullying"`
	PositiveRatio float64 `json:"positive_ratio"`
	MeanLength    float64 `json:"mean_text_length"`
}

// MarshalJSON rounds the ratio to four and the mean length to one decimal
// place; stored values stay raw.
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	a := alias(s)
	a.PositiveRatio = math.Round(s.PositiveRatio*1e4) / 1e4
	a.MeanLength = math.Round(s.MeanLength*10) / 10
	return json.Marshal(a)
}

// Describe computes summary statistics.
func (d *Dataset) Describe() Stats {
	s := Stats{ID: d.ID, Total: d.Len()}
	lengthSum := 0
	for i, text := range d.Texts {
		if d.Labels[i] == 1 {
			s.Positive++
		} else {
			s.Negative++
		}
		lengthSum += len(text)
	}
	if s.Total > 0 {
		s.PositiveRatio = float64(s.Positive) / float64(s.Total)
		s.MeanLength = float64(lengthSum) / float64(s.Total)
	}
	return s
}
