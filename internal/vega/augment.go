package vega

import (
	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/pkg/types"
)

// MarkerStyle holds the fixed visual constants written into the injected
// layers. Values are only ever written, never read back from the spec.
type MarkerStyle struct {
	MarkerColor    string  `json:"marker_color" yaml:"marker_color"`
	MarkerShape    string  `json:"marker_shape" yaml:"marker_shape"`
	MarkerSize     float64 `json:"marker_size" yaml:"marker_size"`
	RuleColor      string  `json:"rule_color" yaml:"rule_color"`
	RuleOpacity    float64 `json:"rule_opacity" yaml:"rule_opacity"`
	TimelineHeight float64 `json:"timeline_height" yaml:"timeline_height"`
}

// DefaultMarkerStyle returns the stock marker appearance.
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{
		MarkerColor:    "#D6BF57",
		MarkerShape:    "triangle-up",
		MarkerSize:     80,
		RuleColor:      "#D6BF57",
		RuleOpacity:    0.4,
		TimelineHeight: 25,
	}
}

// AugmentSpec injects two layers into a decoded Vega-Lite spec: a
// rule-mark layer drawn over the existing chart, and a point-mark
// timeline appended below it via vconcat. Both layers filter rows with
// MarkerFilterExpr over the event-marker columns, so charts without
// markers render unchanged.
//
// If the spec carries an inline top-level mark/encoding pair, it is
// hoisted into a base layer first. The spec map is modified in place.
func AugmentSpec(spec map[string]interface{}, axis types.AxisDimension, cols []types.Column, style MarkerStyle) error {
	if spec == nil {
		return errors.NewSpecError(errors.CodeMalformedSpec, "chart spec is nil")
	}

	layers, err := hoistBaseLayer(spec)
	if err != nil {
		return err
	}

	expr := MarkerFilterExpr(MarkerColumnIDs(cols))

	ruleLayer := map[string]interface{}{
		"mark": map[string]interface{}{
			"type":    "rule",
			"color":   style.RuleColor,
			"opacity": style.RuleOpacity,
		},
		"transform": []interface{}{
			map[string]interface{}{"filter": expr},
		},
		"encoding": map[string]interface{}{
			"x": map[string]interface{}{
				"field": axis.Key,
				"type":  "temporal",
			},
		},
	}
	spec["layer"] = append(layers, ruleLayer)

	timeline := map[string]interface{}{
		"height": style.TimelineHeight,
		"mark": map[string]interface{}{
			"type":   "point",
			"shape":  style.MarkerShape,
			"size":   style.MarkerSize,
			"color":  style.MarkerColor,
			"filled": true,
		},
		"transform": []interface{}{
			map[string]interface{}{"filter": expr},
		},
		"encoding": map[string]interface{}{
			"x": map[string]interface{}{
				"field": axis.Key,
				"type":  "temporal",
				"axis":  map[string]interface{}{"title": axis.Label},
			},
		},
	}

	vconcat, ok := spec["vconcat"].([]interface{})
	if spec["vconcat"] != nil && !ok {
		return errors.NewSpecError(errors.CodeMalformedSpec, "spec field 'vconcat' is not an array")
	}
	spec["vconcat"] = append(vconcat, timeline)

	return nil
}

// hoistBaseLayer returns the spec's layer array, moving an inline
// top-level mark/encoding pair into a new base layer when present.
func hoistBaseLayer(spec map[string]interface{}) ([]interface{}, error) {
	if raw, present := spec["layer"]; present {
		layers, ok := raw.([]interface{})
		if !ok {
			return nil, errors.NewSpecError(errors.CodeMalformedSpec, "spec field 'layer' is not an array")
		}
		return layers, nil
	}

	base := map[string]interface{}{}
	if mark, ok := spec["mark"]; ok {
		base["mark"] = mark
		delete(spec, "mark")
	}
	if enc, ok := spec["encoding"]; ok {
		base["encoding"] = enc
		delete(spec, "encoding")
	}
	if len(base) == 0 {
		return nil, nil
	}
	return []interface{}{base}, nil
}
