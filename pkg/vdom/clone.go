package vdom

import "strings"

// CloneVNode returns a shallow copy of v with extra merged into its props.
// The copy shares the realized host node and instance of v.
func CloneVNode(v *VNode, extra Props) *VNode {
	if v == nil {
		return nil
	}
	c := *v
	if len(extra) > 0 {
		c.Props = MergeProps(v.Props, extra)
		if c.PatchFlag > 0 || c.PatchFlag == PatchHoisted {
			c.PatchFlag = PatchFullProps
		}
	}
	return &c
}

// MergeProps merges props left to right. Classes are concatenated, styles
// are joined, and handlers for the same event are combined; other keys are
// overwritten by later maps.
func MergeProps(props ...Props) Props {
	out := make(Props)
	for _, p := range props {
		for k, v := range p {
			prev, exists := out[k]
			switch {
			case !exists || prev == nil:
				out[k] = v
			case k == "class":
				out[k] = joinNonEmpty(" ", asString(prev), asString(v))
			case k == "style":
				out[k] = joinNonEmpty("; ", asString(prev), asString(v))
			case isEventKey(k) && v != nil:
				out[k] = mergeHandlers(prev, v)
			default:
				out[k] = v
			}
		}
	}
	return out
}

func isEventKey(k string) bool {
	return len(k) > 2 && k[0] == 'o' && k[1] == 'n' && k[2] >= 'A' && k[2] <= 'Z'
}

func mergeHandlers(a, b any) []any {
	var out []any
	for _, h := range []any{a, b} {
		if list, ok := h.([]any); ok {
			out = append(out, list...)
		} else {
			out = append(out, h)
		}
	}
	return out
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, strings.TrimSuffix(p, ";"))
		}
	}
	return strings.Join(keep, sep)
}
