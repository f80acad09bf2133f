// SPDX-License-Identifier: MIT

// Command rla runs the randomized least-squares drivers on synthetic
// problems with a prescribed spectrum and reports accuracy and timings.
//
//	rla backend
//	rla solve --driver spo3 --sketch sjlt --m 4000 --n 100 --kappa 1e8
//	rla saddle --delta 1 --solver pcss1
//	rla under --m 2000 --n 50
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
