package bytecode

import "sort"

// lineRun is one run of consecutive instruction bytes attributed to a
// single source line: offsets in [start, next run's start) map to
// Line.
type lineRun struct {
	start int
	line  int
}

// LineTable is a run-length-encoded offset -> source line mapping.
// Appends must be non-decreasing by offset, matching how a compiler
// emits one run per source line as it walks the AST left to right.
type LineTable struct {
	runs []lineRun
}

// Add starts a new run at offset mapping to line, if line differs from
// the current open run (consecutive instructions on the same source
// line are coalesced into one run rather than one entry per byte).
func (lt *LineTable) Add(offset, line int) {
	if n := len(lt.runs); n > 0 && lt.runs[n-1].line == line {
		return
	}
	lt.runs = append(lt.runs, lineRun{start: offset, line: line})
}

// GetLine returns the line whose run contains offset: the line of the
// largest run start <= offset. Callers must never query past the last
// instruction (spec.md §4.3).
func (lt *LineTable) GetLine(offset int) int {
	if len(lt.runs) == 0 {
		return 0
	}
	i := sort.Search(len(lt.runs), func(i int) bool {
		return lt.runs[i].start > offset
	})
	return lt.runs[i-1].line
}

// Len reports the number of runs, for serialization and tests.
func (lt *LineTable) Len() int { return len(lt.runs) }
