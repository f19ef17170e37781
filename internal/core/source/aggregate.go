// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Envelope is the dual-source response body.
//
// A branch that did not run is encoded as null.
type Envelope[L, R any] struct {
	DBResult  *L `json:"dbResult"`
	APIResult *R `json:"apiResult"`
}

/*
Fetch runs the branches chosen by selector and collects their results.

Description: [Local] calls only localFn and [Remote] only remoteFn. [Both] runs
them concurrently and waits for both. A failure in any branch that ran fails the
whole request and cancels the sibling branch.

Parameters:
  - ctx: context.Context
  - selector: Selector
  - localFn: func(context.Context) (L, error)
  - remoteFn: func(context.Context) (R, error)

Returns:
  - Envelope[L, R]: Results of the branches that ran
  - error: The first branch error
*/
func Fetch[L, R any](
	ctx context.Context,
	selector Selector,
	localFn func(context.Context) (L, error),
	remoteFn func(context.Context) (R, error),
) (Envelope[L, R], error) {
	var envelope Envelope[L, R]
	group, groupCtx := errgroup.WithContext(ctx)

	if selector.IncludesLocal() {
		group.Go(func() error {
			result, err := localFn(groupCtx)
			if err != nil {
				return err
			}
			envelope.DBResult = &result
			return nil
		})
	}

	if selector.IncludesRemote() {
		group.Go(func() error {
			result, err := remoteFn(groupCtx)
			if err != nil {
				return err
			}
			envelope.APIResult = &result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Envelope[L, R]{}, err
	}
	return envelope, nil
}
