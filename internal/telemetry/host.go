package telemetry

import "github.com/vango-dev/reactor/pkg/renderer"

var (
	_ renderer.Host           = (*CountingHost)(nil)
	_ renderer.TargetResolver = (*CountingHost)(nil)
)

// CountingHost forwards to a renderer.Host and counts each mutation.
// Reads (ParentNode, NextSibling, QuerySelector) are not counted.
type CountingHost struct {
	host    renderer.Host
	metrics *Metrics
}

// NewCountingHost wraps host. A nil metrics counts nothing.
func NewCountingHost(host renderer.Host, metrics *Metrics) *CountingHost {
	return &CountingHost{host: host, metrics: metrics}
}

func (h *CountingHost) Insert(child, parent, anchor any) {
	h.metrics.HostOp("insert")
	h.host.Insert(child, parent, anchor)
}

func (h *CountingHost) Remove(child any) {
	h.metrics.HostOp("remove")
	h.host.Remove(child)
}

func (h *CountingHost) CreateElement(tag string) any {
	h.metrics.HostOp("create_element")
	return h.host.CreateElement(tag)
}

func (h *CountingHost) CreateText(text string) any {
	h.metrics.HostOp("create_text")
	return h.host.CreateText(text)
}

func (h *CountingHost) SetElementText(el any, text string) {
	h.metrics.HostOp("set_element_text")
	h.host.SetElementText(el, text)
}

func (h *CountingHost) SetText(node any, text string) {
	h.metrics.HostOp("set_text")
	h.host.SetText(node, text)
}

func (h *CountingHost) PatchProp(el any, key string, prev, next any) {
	h.metrics.HostOp("patch_prop")
	h.host.PatchProp(el, key, prev, next)
}

func (h *CountingHost) ParentNode(node any) any {
	return h.host.ParentNode(node)
}

func (h *CountingHost) NextSibling(node any) any {
	return h.host.NextSibling(node)
}

// QuerySelector forwards to the wrapped host when it resolves targets.
func (h *CountingHost) QuerySelector(selector string) any {
	if tr, ok := h.host.(renderer.TargetResolver); ok {
		return tr.QuerySelector(selector)
	}
	return nil
}
