package nbservice

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 8

// Check returns, in input order, the notebooks that still carry outputs or
// execution counts. The first load error aborts the check.
func (s *Service) Check(ctx context.Context, paths []string) ([]string, error) {
	dirty := make([]bool, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			nb, err := s.Load(gCtx, p)
			if err != nil {
				return err
			}
			dirty[i] = !nb.IsCleared()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for i, d := range dirty {
		if d {
			out = append(out, paths[i])
		}
	}
	return out, nil
}
