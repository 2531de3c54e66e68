// Package mapping loads the ordered image/phrase rules that drive a run.
//
// The mapping file is caller-owned JSON: an ordered list of rules, each
// pairing an image filename with the narration phrase whose spoken onset
// should cut to it, plus an opaque effects blob interpreted only by the
// renderer. Rule order defines video order.
package mapping
