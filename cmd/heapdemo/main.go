package main

import (
	"context"
	"fmt"
	"os"

	"github.com/1a13/heap-allocator/heap"
	"github.com/1a13/heap-allocator/internal/runtime"
)

func main() {
	host := runtime.NewSegmentHost(1024)
	defer host.Close(context.Background())

	cfg := heap.DefaultConfig()
	cfg.OnInconsistency = func(err error) {
		fmt.Fprintf(os.Stderr, "heap inconsistency: %v\n", err)
	}

	a, err := heap.NewExplicitAllocator(host.Segment(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize heap: %v\n", err)
		os.Exit(1)
	}

	p, err := a.Allocate(100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate failed: %v\n", err)
		os.Exit(1)
	}

	q, err := a.Allocate(200)
	if err != nil {
		fmt.Fprintf(os.Stderr, "allocate failed: %v\n", err)
		os.Exit(1)
	}

	a.Free(p)

	if _, err := a.Reallocate(q, 400); err != nil {
		fmt.Fprintf(os.Stderr, "reallocate failed: %v\n", err)
		os.Exit(1)
	}

	if ok, err := a.ValidateHeap(); !ok {
		fmt.Fprintf(os.Stderr, "heap failed validation: %v\n", err)
		os.Exit(1)
	}

	a.DumpHeap(os.Stdout)
}
