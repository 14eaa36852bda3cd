package filters

import (
	"context"
	"encoding/json"

	"github.com/filterkit/filterkit/observe"
	"github.com/filterkit/filterkit/querycodec"
	"github.com/filterkit/filterkit/urlstate"
)

// reflectQuery encodes the given filters into the current location's query
// component, in place. No-op while the router is not ready or when the
// filters carry no fields. Sequence fields encode as bracket pairs; nil
// and empty-string fields are omitted.
func (c *Coordinator[F, D, V]) reflectQuery(ctx context.Context, filters F) {
	if !c.router.Ready() {
		return
	}

	fields := c.queryFields(filters)
	if len(fields) == 0 {
		return
	}

	query := querycodec.Stringify(fields, querycodec.DefaultOptions())
	c.logger.Debug(ctx, "reflecting filters into URL", observe.F("query", query))

	if c.cfg.SetQuery != nil {
		c.cfg.SetQuery(query)
		return
	}

	loc := c.router.Location()
	c.router.Replace(
		urlstate.Location{Path: loc.Path, RawQuery: query},
		urlstate.ReplaceOptions{Scroll: c.cfg.scroll()},
	)
}

func (c *Coordinator[F, D, V]) queryFields(filters F) map[string]any {
	if c.cfg.TransformQuery != nil {
		return c.cfg.TransformQuery(filters)
	}
	return jsonFieldMap(filters)
}

// jsonFieldMap flattens a value into its JSON field representation, the
// identity transform for map- and struct-shaped filters.
func jsonFieldMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}
