package snutt

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/semester"
)

// FetchAllPages collects every catalog page for one (year, semester
// variant) pair and returns the deduplicated slim projection.
//
// The upstream paginates under two conventions. Offset-based requests
// are tried first; if the unique count after that pass still fits in a
// single page, the upstream likely ignored the offset parameter and
// the page-index convention is retried into the same dedup map.
//
// A 400 or 404 means "no data for this query shape" and ends the pass
// silently. A 5xx is a hard failure and propagates immediately as
// *UpstreamError.
func (c *Client) FetchAllPages(ctx context.Context, year int, variant semester.Value) ([]SlimLecture, error) {
	uniq := make(map[string]*RawLecture)
	var order []string

	merge := func(arr []json.RawMessage) {
		for _, raw := range arr {
			var lec RawLecture
			if err := json.Unmarshal(raw, &lec); err != nil {
				continue
			}
			key := lec.Key()
			if _, seen := uniq[key]; !seen {
				order = append(order, key)
			}
			uniq[key] = &lec
		}
	}

	page := func(body map[string]any) (int, bool, error) {
		resp, err := c.searchQuery(ctx, body)
		if err != nil {
			return 0, false, err
		}
		if resp.Status == 400 || resp.Status == 404 {
			return 0, false, nil
		}
		if resp.Status >= 500 {
			return 0, false, &UpstreamError{Status: resp.Status, Body: string(resp.Body)}
		}
		if !resp.IsJSON {
			return 0, false, nil
		}
		arr := pickArray(resp.Body)
		merge(arr)
		return len(arr), true, nil
	}

	for p := 0; p < c.cfg.MaxPages; p++ {
		n, ok, err := page(map[string]any{
			"year": year, "semester": variant, "limit": c.cfg.PageSize, "offset": p * c.cfg.PageSize,
		})
		if err != nil {
			return nil, err
		}
		if !ok || n == 0 || n < c.cfg.PageSize {
			break
		}
	}

	if len(uniq) <= c.cfg.PageSize {
		for p := 0; p < c.cfg.MaxPages; p++ {
			n, ok, err := page(map[string]any{
				"year": year, "semester": variant, "limit": c.cfg.PageSize, "page": p,
			})
			if err != nil {
				return nil, err
			}
			if !ok || n == 0 || n < c.cfg.PageSize {
				break
			}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"year":     year,
		"semester": variant,
		"unique":   len(uniq),
	}).Debug("Collected upstream pages")

	slim := make([]SlimLecture, 0, len(order))
	for _, key := range order {
		slim = append(slim, uniq[key].Slim())
	}
	return slim, nil
}
