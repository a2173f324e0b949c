// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package apriori computes association-rule metrics over market-basket
// transactions.
//
// For itemsets A and B over a list of transactions:
//
//	support(A)       = fraction of transactions containing every item of A
//	confidence(A, B) = support(A ∪ B) / support(A)
//	lift(A, B)       = support(A ∪ B) / (support(A) · support(B))
//
// A lift above 1 means A and B are bought together more often than chance.
//
// Example:
//
//	txs, err := apriori.ReadTransactions(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lift, product, err := apriori.BestLift(apriori.NewItemset("mineral water"), txs)
package apriori
