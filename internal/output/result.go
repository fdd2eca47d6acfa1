// Package output implements cmd/globlin's result rendering: turning the
// core's projected project.Entry values into the lines a terminal or a
// JSON consumer sees. Grounded on the teacher's internal/output package —
// the same Result/Formatter/Writer split, retargeted from "a matched line
// within a file" to "a matched path in a tree".
package output

import "github.com/capsoftware/globlin/internal/project"

// Result is one matched path ready for formatting. SeqNum orders results
// from a parallel/async query back into a deterministic sequence, the
// same role it played in the teacher's grep Result.
type Result struct {
	Entry  project.Entry
	SeqNum int
	Err    error
}
