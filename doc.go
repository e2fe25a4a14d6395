// Package fastbin provides supervised optimal binning for Go: it discretizes
// a feature against a binary target into a few bins that keep as much
// Information Value (IV) as possible under size constraints.
//
// The binners implement the Weight-of-Evidence (WoE) encoding used in credit
// scoring and other risk models, with a scikit-learn-like Fit/Transform API.
//
// # Features
//
//   - Numerical and categorical binning with a missing-value bin
//   - Quantile pre-binning followed by a greedy IV-preserving merge
//   - max_bins, min_bin_pct and max_bin_pct constraints
//   - WoE transform, IV summary and population stability index (PSI)
//   - CPU-parallel passes over large inputs; safe concurrent Transform
//   - Structured errors (cockroachdb/errors) and logging (zerolog)
//
// # Installation
//
//	go get github.com/YuminosukeSato/fastbin
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/fastbin/binning"
//	)
//
//	func main() {
//	    x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
//	    y := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
//
//	    b := binning.NewNumericalBinning(binning.WithMaxBins(2))
//	    bins, err := b.Fit(x, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, bin := range bins {
//	        fmt.Println(bin)
//	    }
//
//	    woe, err := b.TransformWoE([]float64{2.5, 8})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(woe)
//	}
//
// # Package Structure
//
//   - binning: numerical and categorical binners, statistics, summary
//   - metrics: AUC, Gini, KS and log loss for evaluating WoE scores
//   - core/model: estimator state, identity and logger
//   - core/parallel: range-splitting helpers for parallel passes
//   - pkg/errors: error types and the warning system
//   - pkg/log: structured logging
//
// # Missing Values
//
// NaN (numerical) and binning.MissingCode (categorical) are routed to a
// dedicated missing bin that is exempt from the size constraints. Its IV is
// left out of the total unless binning.WithIncludeMissingIV(true) is set.
//
// # Error Handling
//
//	bins, err := b.Fit(x, y)
//	if err != nil {
//	    var dim *errors.DimensionError
//	    if errors.As(err, &dim) {
//	        // x and y lengths differ
//	    }
//	}
//
// # License
//
// fastbin is released under the MIT License.
package fastbin
