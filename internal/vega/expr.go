// Package vega rewrites externally-owned Vega-Lite chart specifications
// to render event-marker columns produced by the overlay binner. Only the
// injected layers and the filter-expression format are owned here; the
// surrounding spec schema is not.
package vega

import (
	"fmt"
	"strings"

	"github.com/chartmark/chartmark/pkg/types"
)

// MarkerColumnIDs returns the IDs of the event-marker columns, in order.
func MarkerColumnIDs(cols []types.Column) []string {
	var ids []string
	for _, c := range cols {
		if c.Kind == types.KindEventMarker {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// MarkerFilterExpr builds the Vega expression selecting rows where any of
// the given marker columns is non-zero:
//
//	datum['deploys'] > 0 || datum['alerts'] > 0
//
// With no IDs the expression is the literal "false", so the injected
// layers match nothing instead of everything.
func MarkerFilterExpr(ids []string) string {
	if len(ids) == 0 {
		return "false"
	}
	preds := make([]string, len(ids))
	for i, id := range ids {
		preds[i] = fmt.Sprintf("datum['%s'] > 0", id)
	}
	return strings.Join(preds, " || ")
}
