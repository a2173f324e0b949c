// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package apriori

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Common errors.
var (
	ErrNoTransactions = errors.New("apriori: no transactions")
	ErrNoCandidates   = errors.New("apriori: no product outside the given itemset")
)

// Itemset is a set of product names.
type Itemset map[string]struct{}

// NewItemset creates an itemset from items; duplicates collapse.
func NewItemset(items ...string) Itemset {
	s := make(Itemset, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Contains reports whether item is in s.
func (s Itemset) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// Union returns a new itemset holding the items of s and other.
func (s Itemset) Union(other Itemset) Itemset {
	u := make(Itemset, len(s)+len(other))
	for item := range s {
		u[item] = struct{}{}
	}
	for item := range other {
		u[item] = struct{}{}
	}
	return u
}

// SubsetOf reports whether every item of s is in t.
func (s Itemset) SubsetOf(t Itemset) bool {
	if len(s) > len(t) {
		return false
	}
	for item := range s {
		if !t.Contains(item) {
			return false
		}
	}
	return true
}

// Items returns the items in sorted order.
func (s Itemset) Items() []string {
	items := make([]string, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// String formats the itemset as {a, b, c}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.Items(), ", ") + "}"
}

// ReadTransactions parses one transaction per CSV record.
//
// The first record is a header and is skipped. Fields are trimmed and
// empty fields dropped, so rows padded with trailing commas are fine.
// Blank lines are ignored.
func ReadTransactions(r io.Reader) ([]Itemset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var txs []Itemset
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("apriori: reading transactions: %w", err)
		}
		if line == 0 {
			continue
		}

		tx := make(Itemset, len(record))
		for _, field := range record {
			if item := strings.TrimSpace(field); item != "" {
				tx[item] = struct{}{}
			}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Support returns the fraction of transactions that contain every item.
func Support(items Itemset, txs []Itemset) (float64, error) {
	if len(txs) == 0 {
		return 0, ErrNoTransactions
	}
	var count int
	for _, tx := range txs {
		if items.SubsetOf(tx) {
			count++
		}
	}
	return float64(count) / float64(len(txs)), nil
}

// Confidence returns support(a ∪ b) / support(a), or 0 when a never occurs.
func Confidence(a, b Itemset, txs []Itemset) (float64, error) {
	supAB, err := Support(a.Union(b), txs)
	if err != nil {
		return 0, err
	}
	supA, _ := Support(a, txs)
	if supA == 0 {
		return 0, nil
	}
	return supAB / supA, nil
}

// Lift returns support(a ∪ b) / (support(a) · support(b)), or 0 when either
// side never occurs.
func Lift(a, b Itemset, txs []Itemset) (float64, error) {
	supAB, err := Support(a.Union(b), txs)
	if err != nil {
		return 0, err
	}
	supA, _ := Support(a, txs)
	supB, _ := Support(b, txs)
	if supA == 0 || supB == 0 {
		return 0, nil
	}
	return supAB / (supA * supB), nil
}

// BestLift finds the single product with the highest lift against given.
//
// Products in given are never candidates. Ties go to the lexicographically
// smallest product.
func BestLift(given Itemset, txs []Itemset) (float64, Itemset, error) {
	if len(txs) == 0 {
		return 0, nil, ErrNoTransactions
	}

	products := make(Itemset)
	for _, tx := range txs {
		for item := range tx {
			if !given.Contains(item) {
				products[item] = struct{}{}
			}
		}
	}
	if len(products) == 0 {
		return 0, nil, ErrNoCandidates
	}

	best := -1.0
	var bestProduct string
	for _, product := range products.Items() {
		lift, err := Lift(given, NewItemset(product), txs)
		if err != nil {
			return 0, nil, err
		}
		if lift > best {
			best, bestProduct = lift, product
		}
	}
	return best, NewItemset(bestProduct), nil
}
